// AngelaMos | 2026
// dto.go

package verse

import (
	"time"
)

type SetRequest struct {
	Reference string    `json:"reference"  validate:"required,min=1,max=100"`
	Text      string    `json:"text"       validate:"required,min=1,max=2000"`
	VerseDate time.Time `json:"verse_date" validate:"required"`
}

type Response struct {
	ID        string `json:"id"`
	ChurchID  string `json:"church_id"`
	Reference string `json:"reference"`
	Text      string `json:"text"`
	VerseDate string `json:"verse_date"`
}

func ToResponse(v *Verse) Response {
	return Response{
		ID:        v.ID,
		ChurchID:  v.ChurchID,
		Reference: v.Reference,
		Text:      v.Text,
		VerseDate: v.VerseDate.Format(time.DateOnly),
	}
}

func ToResponseList(items []Verse) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return out
}
