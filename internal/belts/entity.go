// AngelaMos | 2026
// entity.go

package belts

import (
	"time"
)

type Belt struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	Belt          string    `db:"belt"`
	Stripes       int       `db:"stripes"`
	PromotionDate time.Time `db:"promotion_date"`
	Instructor    string    `db:"instructor"`
	CreatedAt     time.Time `db:"created_at"`
}
