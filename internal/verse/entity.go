// AngelaMos | 2026
// entity.go

package verse

import (
	"time"
)

// Verse is a church's daily scripture. One verse per church per date,
// enforced by a unique index on (church_id, verse_date).
type Verse struct {
	ID        string    `db:"id"`
	ChurchID  string    `db:"church_id"`
	Reference string    `db:"reference"`
	Text      string    `db:"text"`
	VerseDate time.Time `db:"verse_date"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
