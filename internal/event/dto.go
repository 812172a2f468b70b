// AngelaMos | 2026
// dto.go

package event

import (
	"time"
)

type CreateRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=10000"`
	Location    string     `json:"location"    validate:"max=500"`
	StartsAt    time.Time  `json:"starts_at"   validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
}

type UpdateRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Location    *string    `json:"location"    validate:"omitempty,max=500"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

type RSVPRequest struct {
	Status string `json:"status" validate:"required,oneof=going maybe declined"`
}

type Response struct {
	ID          string      `json:"id"`
	ChurchID    string      `json:"church_id"`
	AuthorID    string      `json:"author_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Location    string      `json:"location,omitempty"`
	StartsAt    time.Time   `json:"starts_at"`
	EndsAt      *time.Time  `json:"ends_at,omitempty"`
	RSVPs       *RSVPCounts `json:"rsvps,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func ToResponse(e *Event) Response {
	return Response{
		ID:          e.ID,
		ChurchID:    e.ChurchID,
		AuthorID:    e.AuthorID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		CreatedAt:   e.CreatedAt,
	}
}

func ToResponseList(items []Event) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return out
}
