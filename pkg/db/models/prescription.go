package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medgrove/pharmacare-backend/pkg/enums"
)

// Prescription is an uploaded prescription document pending pharmacist review.
type Prescription struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	PrescriptionNumber *string                  `gorm:"column:prescription_number;uniqueIndex"`
	ImageURL           *string                  `gorm:"column:image_url"`
	Status             enums.PrescriptionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Notes              *string                  `gorm:"column:notes"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
