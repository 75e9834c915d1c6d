package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db"
	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
)

// CreateCouponInput holds the validated payload to create a coupon.
type CreateCouponInput struct {
	Code               string
	Description        *string
	DiscountAmount     decimal.Decimal
	DiscountPercentage decimal.Decimal
	UsageLimit         *int
	ValidFrom          *time.Time
	ValidTo            *time.Time
	Active             *bool
}

// UpdateCouponInput holds optional mutation values for a coupon.
type UpdateCouponInput struct {
	Description        *string
	DiscountAmount     *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	UsageLimit         *int
	ValidFrom          *time.Time
	ValidTo            *time.Time
	Active             *bool
}

// Service exposes coupon management and redemption checks.
type Service interface {
	CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error)
	GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	UpdateCoupon(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
	ValidateByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type service struct {
	repo Repository
}

// NewService constructs a coupons service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if input.DiscountAmount.IsNegative() || input.DiscountPercentage.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	if input.DiscountAmount.IsZero() && input.DiscountPercentage.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "either discount_amount or discount_percentage is required")
	}

	coupon := &models.Coupon{
		ID:                 uuid.New(),
		Code:               code,
		Description:        input.Description,
		DiscountAmount:     input.DiscountAmount,
		DiscountPercentage: input.DiscountPercentage,
		UsageLimit:         1,
		ValidFrom:          input.ValidFrom,
		ValidTo:            input.ValidTo,
		Active:             true,
	}
	if input.UsageLimit != nil {
		if *input.UsageLimit <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage_limit must be positive")
		}
		coupon.UsageLimit = *input.UsageLimit
	}
	if input.Active != nil {
		coupon.Active = *input.Active
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating coupon")
	}
	return created, nil
}

func (s *service) GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	return coupon, nil
}

func (s *service) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing coupons")
	}
	return coupons, nil
}

func (s *service) UpdateCoupon(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*models.Coupon, error) {
	if _, err := s.GetCoupon(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.DiscountAmount != nil {
		if input.DiscountAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
		}
		updates["discount_amount"] = *input.DiscountAmount
	}
	if input.DiscountPercentage != nil {
		if input.DiscountPercentage.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
		}
		updates["discount_percentage"] = *input.DiscountPercentage
	}
	if input.UsageLimit != nil {
		if *input.UsageLimit <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage_limit must be positive")
		}
		updates["usage_limit"] = *input.UsageLimit
	}
	if input.ValidFrom != nil {
		updates["valid_from"] = *input.ValidFrom
	}
	if input.ValidTo != nil {
		updates["valid_to"] = *input.ValidTo
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating coupon")
	}
	return s.GetCoupon(ctx, id)
}

// DeleteCoupon refuses to remove a coupon already redeemed by orders.
func (s *service) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCoupon(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting coupon orders")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "coupon has been redeemed by orders")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting coupon")
	}
	return nil
}

// ValidateByCode checks that a coupon can still be redeemed: it must be
// active, inside its validity window and under its usage limit.
func (s *service) ValidateByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid or expired coupon")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}

	now := time.Now().UTC()
	switch {
	case !coupon.Active:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid or expired coupon")
	case coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom):
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid or expired coupon")
	case coupon.ValidTo != nil && now.After(*coupon.ValidTo):
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid or expired coupon")
	case coupon.UsedCount >= coupon.UsageLimit:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid or expired coupon")
	}
	return coupon, nil
}

// Discount resolves the money value of a coupon for a given subtotal. A fixed
// amount wins over a percentage when both are set.
func Discount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	if coupon.DiscountAmount.IsPositive() {
		return decimal.Min(coupon.DiscountAmount, subtotal)
	}
	if coupon.DiscountPercentage.IsPositive() {
		return subtotal.Mul(coupon.DiscountPercentage).Div(decimal.NewFromInt(100)).Round(2)
	}
	return decimal.Zero
}
