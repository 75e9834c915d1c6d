package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/enums"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

type stubUserRepo struct {
	users       map[uuid.UUID]*models.User
	roles       map[string]*models.Role
	assignments map[uuid.UUID][]string
	updates     []map[string]any
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users: map[uuid.UUID]*models.User{},
		roles: map[string]*models.Role{
			"admin":      {ID: 1, Name: "admin"},
			"pharmacist": {ID: 2, Name: "pharmacist"},
			"customer":   {ID: 3, Name: "customer"},
		},
		assignments: map[uuid.UUID][]string{},
	}
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) List(ctx context.Context, params pagination.Params) (*UserList, error) {
	return &UserList{Users: []UserDTO{}}, nil
}

func (s *stubUserRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = append(s.updates, updates)
	return nil
}

func (s *stubUserRepo) RoleNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.assignments[userID], nil
}

func (s *stubUserRepo) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	role, ok := s.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (s *stubUserRepo) AssignRole(ctx context.Context, userID uuid.UUID, roleID int) error {
	for name, role := range s.roles {
		if role.ID == roleID {
			s.assignments[userID] = append(s.assignments[userID], name)
		}
	}
	return nil
}

func (s *stubUserRepo) RemoveRole(ctx context.Context, userID uuid.UUID, roleID int) error {
	var kept []string
	for _, name := range s.assignments[userID] {
		if s.roles[name].ID != roleID {
			kept = append(kept, name)
		}
	}
	s.assignments[userID] = kept
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newUserService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(nil, stubTxRunner{})
	require.Error(t, err)

	_, err = NewService(newStubUserRepo(), nil)
	require.Error(t, err)
}

func TestGetUserNotFound(t *testing.T) {
	svc := newUserService(t, newStubUserRepo())

	_, err := svc.GetUser(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestAssignRoleFlow(t *testing.T) {
	repo := newStubUserRepo()
	user := &models.User{ID: uuid.New(), Email: "a@example.com", IsActive: true}
	repo.users[user.ID] = user
	svc := newUserService(t, repo)
	ctx := context.Background()

	dto, err := svc.AssignRole(ctx, user.ID, enums.RolePharmacist)
	require.NoError(t, err)
	assert.Contains(t, dto.Roles, "pharmacist")

	_, err = svc.AssignRole(ctx, user.ID, enums.RolePharmacist)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	_, err = svc.AssignRole(ctx, user.ID, enums.Role("superuser"))
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestRemoveRoleNotAssigned(t *testing.T) {
	repo := newStubUserRepo()
	user := &models.User{ID: uuid.New(), Email: "b@example.com", IsActive: true}
	repo.users[user.ID] = user
	svc := newUserService(t, repo)

	_, err := svc.RemoveRole(context.Background(), user.ID, enums.RoleAdmin)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestUpdateUserRequiresFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(t, repo)

	_, err := svc.UpdateUser(context.Background(), uuid.New(), UpdateUserInput{})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestDeactivateUser(t *testing.T) {
	repo := newStubUserRepo()
	user := &models.User{ID: uuid.New(), Email: "c@example.com", IsActive: true}
	repo.users[user.ID] = user
	svc := newUserService(t, repo)

	require.NoError(t, svc.DeactivateUser(context.Background(), user.ID))
	require.Len(t, repo.updates, 1)
	assert.Equal(t, false, repo.updates[0]["is_active"])
}
