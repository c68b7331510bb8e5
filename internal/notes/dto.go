// AngelaMos | 2026
// dto.go

package notes

import (
	"time"
)

type CreateNoteRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Content     string `json:"content" validate:"required"`
	Category    string `json:"category" validate:"max=100"`
	LinkToClass *int64 `json:"linkToClass" validate:"omitempty,gt=0"`
}

type UpdateNoteRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Content     *string `json:"content"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	LinkToClass *int64  `json:"linkToClass" validate:"omitempty,gt=0"`
}

type GymShareRequest struct {
	GymID int64 `json:"gymId" validate:"required,gt=0"`
}

type NoteResponse struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Category    string     `json:"category"`
	LinkToClass *int64     `json:"linkToClass,omitempty"`
	IsShared    bool       `json:"isShared"`
	SharedAt    *time.Time `json:"sharedAt,omitempty"`
	GymID       *int64     `json:"gymId,omitempty"`
	VideoURL    string     `json:"videoUrl,omitempty"`
	LikeCount   int        `json:"likeCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (s *Service) toNoteResponse(n *Note) NoteResponse {
	resp := NoteResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		Title:       n.Title,
		Content:     n.Content,
		Category:    n.Category,
		LinkToClass: n.LinkToClass,
		IsShared:    n.IsShared,
		SharedAt:    n.SharedAt,
		GymID:       n.GymID,
		LikeCount:   n.LikeCount,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}

	if n.HasVideo() {
		resp.VideoURL = s.videos.PublicURL(*n.VideoKey)
	}

	return resp
}

func (s *Service) toNoteResponseList(list []Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(list))
	for i := range list {
		out = append(out, s.toNoteResponse(&list[i]))
	}
	return out
}
