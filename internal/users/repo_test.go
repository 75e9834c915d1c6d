package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:users_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	rolesTable := `
CREATE TABLE IF NOT EXISTS roles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	userRolesTable := `
CREATE TABLE IF NOT EXISTS user_roles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  role_id INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, role_id)
);`
	require.NoError(t, db.Exec(usersTable).Error)
	require.NoError(t, db.Exec(rolesTable).Error)
	require.NoError(t, db.Exec(userRolesTable).Error)

	seedRoles := `INSERT INTO roles (name) VALUES ('admin'), ('pharmacist'), ('staff'), ('customer');`
	require.NoError(t, db.Exec(seedRoles).Error)
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Repo",
		LastName:     "Tester",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestFindByEmailIsCaseInsensitive(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := newTestUser(t, db, "casey@example.com")

	found, err := repo.FindByEmail(ctx, "  Casey@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestAssignAndRemoveRole(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newTestUser(t, db, "roley@example.com")

	role, err := repo.FindRoleByName(ctx, "pharmacist")
	require.NoError(t, err)

	require.NoError(t, repo.AssignRole(ctx, user.ID, role.ID))
	names, err := repo.RoleNames(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pharmacist"}, names)

	// duplicate assignment violates the pair constraint
	require.Error(t, repo.AssignRole(ctx, user.ID, role.ID))

	require.NoError(t, repo.RemoveRole(ctx, user.ID, role.ID))
	names, err = repo.RoleNames(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListUsersPaginates(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		user := &models.User{
			ID:           uuid.New(),
			Email:        uuid.NewString() + "@example.com",
			PasswordHash: "hash",
			FirstName:    "Page",
			LastName:     "Tester",
			IsActive:     true,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(user).Error)
	}

	first, err := repo.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Users, 2)
	require.NotEmpty(t, first.NextCursor)

	cursor, err := pagination.ParseCursor(first.NextCursor)
	require.NoError(t, err)

	second, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second.Users, 1)
	assert.Empty(t, second.NextCursor)

	// newest first
	assert.True(t, first.Users[0].CreatedAt.After(second.Users[0].CreatedAt))
}

func TestUpdateUserFields(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newTestUser(t, db, "updatable@example.com")
	require.NoError(t, repo.Update(ctx, user.ID, map[string]any{"first_name": "Changed", "is_active": false}))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", reloaded.FirstName)
	assert.False(t, reloaded.IsActive)
}
