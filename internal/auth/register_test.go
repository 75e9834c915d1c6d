package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/config"
	"github.com/medgrove/pharmacare-backend/pkg/db"
	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
)

func setupRegisterTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:register_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
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
);`,
		`CREATE TABLE IF NOT EXISTS roles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS user_roles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  role_id INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, role_id)
);`,
		`INSERT INTO roles (name) VALUES ('admin'), ('pharmacist'), ('staff'), ('customer');`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return db.FromConn(conn)
}

func newRegisterService(t *testing.T, client *db.Client) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		DB: client,
		PasswordConfig: config.PasswordConfig{
			ArgonMemoryKB:    32768,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		JWTConfig: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "pharmacare",
			ExpirationMinutes: 30,
		},
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterCreatesCustomerAccount(t *testing.T) {
	client := setupRegisterTestDB(t)
	svc := newRegisterService(t, client)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		FirstName: "Nadia",
		LastName:  "Osei",
		Email:     "Nadia@Example.com",
		Password:  "str0ng-passphrase",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "nadia@example.com", resp.User.Email)
	assert.Equal(t, []string{"customer"}, resp.User.Roles)

	var stored models.User
	require.NoError(t, client.DB().First(&stored, "email = ?", "nadia@example.com").Error)
	assert.NotEqual(t, "str0ng-passphrase", stored.PasswordHash)
	assert.True(t, stored.IsActive)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	client := setupRegisterTestDB(t)
	svc := newRegisterService(t, client)
	ctx := context.Background()

	req := RegisterRequest{
		FirstName: "Nadia",
		LastName:  "Osei",
		Email:     "dup@example.com",
		Password:  "str0ng-passphrase",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterRequiresEmail(t *testing.T) {
	client := setupRegisterTestDB(t)
	svc := newRegisterService(t, client)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "No",
		LastName:  "Email",
		Email:     "   ",
		Password:  "str0ng-passphrase",
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
