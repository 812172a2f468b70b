// AngelaMos | 2026
// entity.go

package audit

import (
	"time"
)

// Result is the outcome recorded for an audited operation.
type Result string

const (
	ResultSuccess Result = "SUCCESS"
	ResultDenied  Result = "DENIED"
	ResultError   Result = "ERROR"
)

// Field is one metadata pair attached to an entry. An ordered list of typed
// pairs keeps entries queryable without allowing arbitrary blobs in.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Entry is an immutable record of an authorization decision or data access.
// Entries reference identities weakly by id and outlive identity deletion.
type Entry struct {
	ID                 string    `db:"id"                  json:"id"`
	IdentityID         string    `db:"identity_id"         json:"identity_id"`
	Action             string    `db:"action"              json:"action"`
	ResourceCollection string    `db:"resource_collection" json:"resource_collection"`
	ResourceID         *string   `db:"resource_id"         json:"resource_id,omitempty"`
	Result             Result    `db:"result"              json:"result"`
	Metadata           []Field   `db:"-"                   json:"metadata,omitempty"`
	CreatedAt          time.Time `db:"created_at"          json:"created_at"`
}

type ListParams struct {
	IdentityID string
	Action     string
	Result     Result
	Page       int
	PageSize   int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 50
	}
	if p.PageSize > 200 {
		p.PageSize = 200
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
