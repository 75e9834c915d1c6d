package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

// Repository defines persistence operations for users and role assignments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, params pagination.Params) (*UserList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	RoleNames(ctx context.Context, userID uuid.UUID) ([]string, error)
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	AssignRole(ctx context.Context, userID uuid.UUID, roleID int) error
	RemoveRole(ctx context.Context, userID uuid.UUID, roleID int) error
}
