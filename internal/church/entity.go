// AngelaMos | 2026
// entity.go

package church

import (
	"crypto/rand"
	"fmt"
	"time"
)

type Church struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Code        string    `db:"code"`
	PastorID    string    `db:"pastor_id"`
	AdminIDs    []string  `db:"-"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const codeLength = 8

// codeAlphabet omits 0/O and 1/I so codes survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns a random join code. Uniqueness is not guaranteed
// here; the database unique index is the arbiter and callers retry on
// collision.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate church code: %w", err)
	}

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}
