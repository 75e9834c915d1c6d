package prescriptions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/internal/policy"
	"github.com/medgrove/pharmacare-backend/pkg/config"
	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/enums"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

// UploadInput carries one prescription document upload.
type UploadInput struct {
	UserID   uuid.UUID
	Filename string
	Size     int64
	Content  io.Reader
	Notes    *string
}

// ReviewInput records a pharmacist's decision on a prescription.
type ReviewInput struct {
	ReviewerRoles []string
	Status        enums.PrescriptionStatus
	Notes         *string
}

// Service exposes prescription upload and review operations.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*models.Prescription, error)
	GetPrescription(ctx context.Context, id uuid.UUID) (*models.Prescription, error)
	ListPrescriptions(ctx context.Context, params pagination.Params, userID *uuid.UUID) (*PrescriptionList, error)
	Review(ctx context.Context, id uuid.UUID, input ReviewInput) (*models.Prescription, error)
	DeletePrescription(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	store   FileStore
	uploads config.UploadsConfig
}

// ServiceParams carries the dependencies for the prescriptions service.
type ServiceParams struct {
	Repo    Repository
	Store   FileStore
	Uploads config.UploadsConfig
}

// NewService constructs a prescriptions service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("prescriptions repository required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("file store required")
	}
	return &service{repo: params.Repo, store: params.Store, uploads: params.Uploads}, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*models.Prescription, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}
	if input.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file content is required")
	}
	if !SupportedExtension(input.Filename) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only jpg, jpeg, png and pdf files are accepted")
	}
	maxBytes := int64(s.uploads.MaxUploadMB) << 20
	if maxBytes > 0 && input.Size > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %dMB upload limit", s.uploads.MaxUploadMB))
	}

	path, err := s.store.Save(input.Filename, input.Content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing prescription file")
	}

	number := newPrescriptionNumber()
	prescription := &models.Prescription{
		ID:                 uuid.New(),
		UserID:             input.UserID,
		PrescriptionNumber: &number,
		ImageURL:           &path,
		Status:             enums.PrescriptionStatusPending,
		Notes:              input.Notes,
	}
	created, err := s.repo.Create(ctx, prescription)
	if err != nil {
		// The row failed; don't leave the file behind.
		_ = s.store.Remove(path)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating prescription")
	}
	return created, nil
}

func (s *service) GetPrescription(ctx context.Context, id uuid.UUID) (*models.Prescription, error) {
	prescription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prescription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading prescription")
	}
	return prescription, nil
}

func (s *service) ListPrescriptions(ctx context.Context, params pagination.Params, userID *uuid.UUID) (*PrescriptionList, error) {
	list, err := s.repo.List(ctx, params, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing prescriptions")
	}
	return list, nil
}

// Review moves a prescription to approved or rejected. Only pharmacists and
// admins may decide, and only pending prescriptions can be decided.
func (s *service) Review(ctx context.Context, id uuid.UUID, input ReviewInput) (*models.Prescription, error) {
	if !policy.CanReviewPrescriptions(input.ReviewerRoles) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to review prescriptions")
	}
	if input.Status != enums.PrescriptionStatusApproved && input.Status != enums.PrescriptionStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review status must be approved or rejected")
	}

	prescription, err := s.GetPrescription(ctx, id)
	if err != nil {
		return nil, err
	}
	if prescription.Status != enums.PrescriptionStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("prescription is already %s", prescription.Status))
	}

	updates := map[string]any{"status": input.Status}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating prescription")
	}
	return s.GetPrescription(ctx, id)
}

func (s *service) DeletePrescription(ctx context.Context, id uuid.UUID) error {
	prescription, err := s.GetPrescription(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting prescription")
	}
	if prescription.ImageURL != nil {
		_ = s.store.Remove(*prescription.ImageURL)
	}
	return nil
}

func newPrescriptionNumber() string {
	return fmt.Sprintf("RX-%s-%s", time.Now().UTC().Format("20060102"), uuid.NewString()[:8])
}
