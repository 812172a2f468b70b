// AngelaMos | 2026
// dto.go

package announcement

import (
	"time"
)

type CreateRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Body  string `json:"body"  validate:"required,min=1,max=10000"`
}

type UpdateRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1,max=200"`
	Body  *string `json:"body"  validate:"omitempty,min=1,max=10000"`
}

type Response struct {
	ID        string    `json:"id"`
	ChurchID  string    `json:"church_id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToResponse(a *Announcement) Response {
	return Response{
		ID:        a.ID,
		ChurchID:  a.ChurchID,
		AuthorID:  a.AuthorID,
		Title:     a.Title,
		Body:      a.Body,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func ToResponseList(items []Announcement) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return out
}
