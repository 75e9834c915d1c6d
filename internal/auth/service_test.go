package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "github.com/medgrove/pharmacare-backend/pkg/auth"
	"github.com/medgrove/pharmacare-backend/pkg/config"
	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
	"github.com/medgrove/pharmacare-backend/pkg/security"
)

type stubAuthUserRepo struct {
	byEmail map[string]*models.User
	roles   map[uuid.UUID][]string
}

func (s *stubAuthUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubAuthUserRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if v, ok := updates["first_name"].(string); ok {
		user.FirstName = v
	}
	if v, ok := updates["last_name"].(string); ok {
		user.LastName = v
	}
	if v, ok := updates["phone"].(*string); ok {
		user.Phone = v
	}
	if v, ok := updates["address"].(*string); ok {
		user.Address = v
	}
	if v, ok := updates["password_hash"].(string); ok {
		user.PasswordHash = v
	}
	return nil
}

func (s *stubAuthUserRepo) RoleNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.roles[userID], nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newAuthService(t *testing.T, repo userRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo: repo,
		JWTConfig: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "pharmacare",
			ExpirationMinutes: 30,
		},
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc
}

func TestLoginSuccess(t *testing.T) {
	hash, err := security.HashPassword("correct horse", testPasswordConfig())
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Email:        "pharmacist@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}
	repo := &stubAuthUserRepo{
		byEmail: map[string]*models.User{user.Email: user},
		roles:   map[uuid.UUID][]string{user.ID: {"pharmacist"}},
	}
	svc := newAuthService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " Pharmacist@Example.com ", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, []string{"pharmacist"}, resp.User.Roles)

	claims, err := pkgAuth.ParseAccessToken(config.JWTConfig{
		Secret:            "secret",
		Issuer:            "pharmacare",
		ExpirationMinutes: 30,
	}, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.True(t, claims.HasRole("pharmacist"))
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := security.HashPassword("correct horse", testPasswordConfig())
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: hash, IsActive: true}
	repo := &stubAuthUserRepo{byEmail: map[string]*models.User{user.Email: user}, roles: map[uuid.UUID][]string{}}
	svc := newAuthService(t, repo)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "battery staple"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(t, &stubAuthUserRepo{byEmail: map[string]*models.User{}})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLoginInactiveAccount(t *testing.T) {
	hash, err := security.HashPassword("correct horse", testPasswordConfig())
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "off@example.com", PasswordHash: hash, IsActive: false}
	repo := &stubAuthUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "off@example.com", Password: "correct horse"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestMeNotFound(t *testing.T) {
	svc := newAuthService(t, &stubAuthUserRepo{byEmail: map[string]*models.User{}})

	_, err := svc.Me(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateProfile(t *testing.T) {
	user := &models.User{
		ID:        uuid.New(),
		Email:     "edit@example.com",
		FirstName: "Old",
		LastName:  "Name",
		IsActive:  true,
	}
	repo := &stubAuthUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo)

	first := "New"
	phone := "+1-555-0100"
	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		FirstName: &first,
		Phone:     &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "New", dto.FirstName)
	assert.Equal(t, "Name", dto.LastName)
	require.NotNil(t, dto.Phone)
	assert.Equal(t, phone, *dto.Phone)

	blank := "   "
	_, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{FirstName: &blank})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestChangePassword(t *testing.T) {
	hash, err := security.HashPassword("old password", testPasswordConfig())
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "rotate@example.com", PasswordHash: hash, IsActive: true}
	repo := &stubAuthUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newAuthService(t, repo)

	err = svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "brand new secret",
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		CurrentPassword: "old password",
		NewPassword:     "brand new secret",
	}))

	// The old password no longer authenticates; the new one does.
	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "old password"})
	require.Error(t, err)
	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "brand new secret"})
	require.NoError(t, err)
}
