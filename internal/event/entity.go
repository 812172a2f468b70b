// AngelaMos | 2026
// entity.go

package event

import (
	"time"
)

type Event struct {
	ID          string     `db:"id"`
	ChurchID    string     `db:"church_id"`
	AuthorID    string     `db:"author_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Location    string     `db:"location"`
	StartsAt    time.Time  `db:"starts_at"`
	EndsAt      *time.Time `db:"ends_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// RSVPStatus is a member's attendance answer for an event.
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPDeclined RSVPStatus = "declined"
)

func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPDeclined:
		return true
	}
	return false
}

type RSVP struct {
	EventID   string     `db:"event_id"   json:"event_id"`
	UserID    string     `db:"user_id"    json:"user_id"`
	Status    RSVPStatus `db:"status"     json:"status"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// RSVPCounts is the per-status tally shown with an event.
type RSVPCounts struct {
	Going    int `db:"going"    json:"going"`
	Maybe    int `db:"maybe"    json:"maybe"`
	Declined int `db:"declined" json:"declined"`
}

type ListParams struct {
	Page     int
	PageSize int
	// Upcoming restricts to events that have not started yet.
	Upcoming bool
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
