// AngelaMos | 2026
// bytes.go

package entitlement

import (
	"fmt"
)

// FormatBytes renders a byte count in binary units for quota error
// messages. Whole values drop the decimal ("10 GiB", "1.5 GiB").
func FormatBytes(n int64) string {
	const unit = int64(1024)

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	value := float64(n) / float64(div)
	suffix := []string{"KiB", "MiB", "GiB", "TiB"}[exp]

	if value == float64(int64(value)) {
		return fmt.Sprintf("%d %s", int64(value), suffix)
	}
	return fmt.Sprintf("%.1f %s", value, suffix)
}
