package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named permission grouping. The table is small and seeded at
// migration time, so the key stays a plain serial.
type Role struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// UserRole links a user to a role. The (user, role) pair is unique.
type UserRole struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_roles_user_role"`
	RoleID    int       `gorm:"column:role_id;not null;uniqueIndex:idx_user_roles_user_role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
