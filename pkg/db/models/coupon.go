package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is a discount code with a bounded usage count. UsedCount only ever
// goes up; cancelling an order does not release its redemption.
type Coupon struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string          `gorm:"column:code;not null;uniqueIndex"`
	Description        *string         `gorm:"column:description"`
	DiscountAmount     decimal.Decimal `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric(5,2);not null;default:0"`
	UsageLimit         int             `gorm:"column:usage_limit;not null;default:1"`
	UsedCount          int             `gorm:"column:used_count;not null;default:0"`
	ValidFrom          *time.Time      `gorm:"column:valid_from;type:date"`
	ValidTo            *time.Time      `gorm:"column:valid_to;type:date"`
	Active             bool            `gorm:"column:active;not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
