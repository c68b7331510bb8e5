// AngelaMos | 2026
// dto.go

package belts

import (
	"time"
)

type CreateBeltRequest struct {
	Belt          string    `json:"belt" validate:"required,oneof=white blue purple brown black coral red"`
	Stripes       int       `json:"stripes" validate:"gte=0,lte=4"`
	PromotionDate time.Time `json:"promotionDate" validate:"required"`
	Instructor    string    `json:"instructor" validate:"max=255"`
}

type UpdateBeltRequest struct {
	Belt          *string    `json:"belt" validate:"omitempty,oneof=white blue purple brown black coral red"`
	Stripes       *int       `json:"stripes" validate:"omitempty,gte=0,lte=4"`
	PromotionDate *time.Time `json:"promotionDate"`
	Instructor    *string    `json:"instructor" validate:"omitempty,max=255"`
}

type BeltResponse struct {
	ID            int64     `json:"id"`
	Belt          string    `json:"belt"`
	Stripes       int       `json:"stripes"`
	PromotionDate time.Time `json:"promotionDate"`
	Instructor    string    `json:"instructor"`
	CreatedAt     time.Time `json:"createdAt"`
}

func ToBeltResponse(b *Belt) BeltResponse {
	return BeltResponse{
		ID:            b.ID,
		Belt:          b.Belt,
		Stripes:       b.Stripes,
		PromotionDate: b.PromotionDate,
		Instructor:    b.Instructor,
		CreatedAt:     b.CreatedAt,
	}
}

func ToBeltResponseList(list []Belt) []BeltResponse {
	out := make([]BeltResponse, 0, len(list))
	for i := range list {
		out = append(out, ToBeltResponse(&list[i]))
	}
	return out
}
