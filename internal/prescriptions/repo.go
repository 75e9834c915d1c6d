package prescriptions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

// PrescriptionList is one page of prescriptions.
type PrescriptionList struct {
	Prescriptions []models.Prescription `json:"prescriptions"`
	NextCursor    *string               `json:"next_cursor,omitempty"`
}

// Repository defines persistence operations for prescriptions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, prescription *models.Prescription) (*models.Prescription, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Prescription, error)
	List(ctx context.Context, params pagination.Params, userID *uuid.UUID) (*PrescriptionList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a prescriptions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, prescription *models.Prescription) (*models.Prescription, error) {
	if err := r.db.WithContext(ctx).Create(prescription).Error; err != nil {
		return nil, err
	}
	return prescription, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := r.db.WithContext(ctx).First(&prescription, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, userID *uuid.UUID) (*PrescriptionList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Prescription{}).
		Order("created_at DESC, id DESC").
		Limit(params.LimitWithBuffer())

	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if params.Cursor != nil {
		query = query.Where(
			"((created_at < ?) OR (created_at = ? AND id < ?))",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var rows []models.Prescription
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	list := &PrescriptionList{Prescriptions: rows}
	if len(rows) > pageSize {
		list.Prescriptions = rows[:pageSize]
		last := list.Prescriptions[len(list.Prescriptions)-1]
		cursor := pagination.EncodeCursor(last.CreatedAt, last.ID)
		list.NextCursor = &cursor
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Prescription{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Prescription{}, "id = ?", id).Error
}
