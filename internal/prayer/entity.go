// AngelaMos | 2026
// entity.go

package prayer

import (
	"time"
)

type Prayer struct {
	ID        string    `db:"id"`
	ChurchID  string    `db:"church_id"`
	AuthorID  string    `db:"author_id"`
	Body      string    `db:"body"`
	Anonymous bool      `db:"anonymous"`
	PrayCount int       `db:"pray_count"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type ListParams struct {
	Page     int
	PageSize int
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
