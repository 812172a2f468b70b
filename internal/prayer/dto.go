// AngelaMos | 2026
// dto.go

package prayer

import (
	"time"
)

type CreateRequest struct {
	Body      string `json:"body"      validate:"required,min=1,max=5000"`
	Anonymous bool   `json:"anonymous"`
}

type Response struct {
	ID        string    `json:"id"`
	ChurchID  string    `json:"church_id"`
	AuthorID  string    `json:"author_id,omitempty"`
	Body      string    `json:"body"`
	Anonymous bool      `json:"anonymous"`
	PrayCount int       `json:"pray_count"`
	CreatedAt time.Time `json:"created_at"`
}

type PrayResponse struct {
	PrayCount int `json:"pray_count"`
}

// ToResponse hides the author of anonymous requests from everyone except
// the author themselves.
func ToResponse(p *Prayer, viewerID string) Response {
	resp := Response{
		ID:        p.ID,
		ChurchID:  p.ChurchID,
		AuthorID:  p.AuthorID,
		Body:      p.Body,
		Anonymous: p.Anonymous,
		PrayCount: p.PrayCount,
		CreatedAt: p.CreatedAt,
	}
	if p.Anonymous && p.AuthorID != viewerID {
		resp.AuthorID = ""
	}
	return resp
}

func ToResponseList(items []Prayer, viewerID string) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i], viewerID))
	}
	return out
}
