package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
)

// UserDTO is the API-facing shape of an account.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserList wraps the paginated accounts plus the next page cursor.
type UserList struct {
	Users      []UserDTO `json:"users"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// FromModel converts a persisted user and its role names into the API shape.
func FromModel(user *models.User, roles []string) UserDTO {
	return toUserDTO(user, roles)
}

// UpdateUserInput holds optional mutation values for an account.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	IsActive  *bool
}
