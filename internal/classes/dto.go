// AngelaMos | 2026
// dto.go

package classes

import (
	"time"
)

type CreateClassRequest struct {
	Date              time.Time `json:"date" validate:"required"`
	ClassTime         string    `json:"classTime" validate:"max=50"`
	Location          string    `json:"location" validate:"max=255"`
	Instructor        string    `json:"instructor" validate:"max=255"`
	ClassType         string    `json:"classType" validate:"max=100"`
	DurationMinutes   int       `json:"durationMinutes" validate:"gte=0,lte=1440"`
	TechniquesLearned string    `json:"techniquesLearned"`
	RollingNotes      string    `json:"rollingNotes"`
}

type UpdateClassRequest struct {
	Date              *time.Time `json:"date"`
	ClassTime         *string    `json:"classTime" validate:"omitempty,max=50"`
	Location          *string    `json:"location" validate:"omitempty,max=255"`
	Instructor        *string    `json:"instructor" validate:"omitempty,max=255"`
	ClassType         *string    `json:"classType" validate:"omitempty,max=100"`
	DurationMinutes   *int       `json:"durationMinutes" validate:"omitempty,gte=0,lte=1440"`
	TechniquesLearned *string    `json:"techniquesLearned"`
	RollingNotes      *string    `json:"rollingNotes"`
}

type ClassResponse struct {
	ID                int64     `json:"id"`
	Date              time.Time `json:"date"`
	ClassTime         string    `json:"classTime"`
	Location          string    `json:"location"`
	Instructor        string    `json:"instructor"`
	ClassType         string    `json:"classType"`
	DurationMinutes   int       `json:"durationMinutes"`
	TechniquesLearned string    `json:"techniquesLearned"`
	RollingNotes      string    `json:"rollingNotes"`
	CreatedAt         time.Time `json:"createdAt"`
}

func ToClassResponse(c *Class) ClassResponse {
	return ClassResponse{
		ID:                c.ID,
		Date:              c.Date,
		ClassTime:         c.ClassTime,
		Location:          c.Location,
		Instructor:        c.Instructor,
		ClassType:         c.ClassType,
		DurationMinutes:   c.DurationMinutes,
		TechniquesLearned: c.TechniquesLearned,
		RollingNotes:      c.RollingNotes,
		CreatedAt:         c.CreatedAt,
	}
}

func ToClassResponseList(list []Class) []ClassResponse {
	out := make([]ClassResponse, 0, len(list))
	for i := range list {
		out = append(out, ToClassResponse(&list[i]))
	}
	return out
}
