// AngelaMos | 2026
// dto.go

package church

import (
	"time"

	"github.com/markustips/biblenotelm-backend/internal/identity"
)

type CreateRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=2,max=120"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	AdminIDs    []string `json:"admin_ids"   validate:"omitempty,dive,uuid"`
}

type JoinRequest struct {
	Code string `json:"code" validate:"required,len=8,alphanum"`
}

type ChurchResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Code        string    `json:"code,omitempty"`
	PastorID    string    `json:"pastor_id"`
	AdminIDs    []string  `json:"admin_ids,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type MembersResponse struct {
	Members []identity.UserResponse `json:"members"`
}

// ToChurchResponse renders a church for one of its own members. The join
// code is only included when withCode is set; it is an invitation secret.
func ToChurchResponse(c *Church, withCode bool) ChurchResponse {
	resp := ChurchResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		PastorID:    c.PastorID,
		AdminIDs:    c.AdminIDs,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
	if withCode {
		resp.Code = c.Code
	}
	return resp
}
