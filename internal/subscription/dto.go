// AngelaMos | 2026
// dto.go

package subscription

import (
	"time"
)

type Response struct {
	ID         string     `json:"id"`
	Tier       string     `json:"tier"`
	Status     Status     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`
}

func ToResponse(s *Subscription) Response {
	return Response{
		ID:         s.ID,
		Tier:       s.Tier,
		Status:     s.Status,
		StartedAt:  s.StartedAt,
		CanceledAt: s.CanceledAt,
	}
}

func ToResponseList(items []Subscription) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return out
}
