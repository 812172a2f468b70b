// AngelaMos | 2026
// entity.go

package subscription

import (
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
)

// Subscription records one tier engagement. Billing reconciliation lives
// with an external collaborator; this table only carries the access
// contract the backend enforces.
type Subscription struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	Tier       string     `db:"tier"`
	Status     Status     `db:"status"`
	StartedAt  time.Time  `db:"started_at"`
	CanceledAt *time.Time `db:"canceled_at"`
}
