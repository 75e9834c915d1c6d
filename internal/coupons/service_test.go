package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
)

func setupCouponsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:coupons_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  description TEXT,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  discount_percentage NUMERIC NOT NULL DEFAULT 0,
  usage_limit INTEGER NOT NULL DEFAULT 1,
  used_count INTEGER NOT NULL DEFAULT 0,
  valid_from DATE,
  valid_to DATE,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  coupon_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func newCouponsService(t *testing.T, conn *gorm.DB) (Service, Repository) {
	t.Helper()
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func timePtr(t time.Time) *time.Time { return &t }

func TestCreateCouponNormalizesCode(t *testing.T) {
	conn := setupCouponsTestDB(t)
	svc, _ := newCouponsService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:           "  welcome10 ",
		DiscountAmount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", created.Code)
	assert.Equal(t, 1, created.UsageLimit)
	assert.Zero(t, created.UsedCount)
	assert.True(t, created.Active)

	_, err = svc.CreateCoupon(ctx, CreateCouponInput{
		Code:           "WELCOME10",
		DiscountAmount: decimal.NewFromInt(5),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestCreateCouponPersistsInactiveFlag(t *testing.T) {
	conn := setupCouponsTestDB(t)
	svc, _ := newCouponsService(t, conn)
	ctx := context.Background()

	off := false
	created, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:           "PAUSED",
		DiscountAmount: decimal.NewFromInt(3),
		Active:         &off,
	})
	require.NoError(t, err)

	fetched, err := svc.GetCoupon(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Active)
}

func TestCreateCouponRequiresDiscount(t *testing.T) {
	conn := setupCouponsTestDB(t)
	svc, _ := newCouponsService(t, conn)

	_, err := svc.CreateCoupon(context.Background(), CreateCouponInput{Code: "NODISC"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestValidateByCode(t *testing.T) {
	conn := setupCouponsTestDB(t)
	svc, repo := newCouponsService(t, conn)
	ctx := context.Background()

	valid, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:           "SPRING",
		DiscountAmount: decimal.NewFromInt(5),
		ValidFrom:      timePtr(time.Now().UTC().AddDate(0, 0, -1)),
		ValidTo:        timePtr(time.Now().UTC().AddDate(0, 0, 7)),
	})
	require.NoError(t, err)

	found, err := svc.ValidateByCode(ctx, "spring")
	require.NoError(t, err)
	assert.Equal(t, valid.ID, found.ID)

	_, err = svc.ValidateByCode(ctx, "NOPE")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	expired, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:           "EXPIRED",
		DiscountAmount: decimal.NewFromInt(5),
		ValidTo:        timePtr(time.Now().UTC().AddDate(0, 0, -1)),
	})
	require.NoError(t, err)
	_, err = svc.ValidateByCode(ctx, expired.Code)
	require.Error(t, err)

	inactive := false
	_, err = svc.UpdateCoupon(ctx, valid.ID, UpdateCouponInput{Active: &inactive})
	require.NoError(t, err)
	_, err = svc.ValidateByCode(ctx, valid.Code)
	require.Error(t, err)

	// Exhausted coupon: one redemption on a limit of one.
	used, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:           "ONESHOT",
		DiscountAmount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	require.NoError(t, repo.IncrementUsage(ctx, used.ID))
	_, err = svc.ValidateByCode(ctx, used.Code)
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestIncrementUsageOnlyGoesUp(t *testing.T) {
	conn := setupCouponsTestDB(t)
	svc, repo := newCouponsService(t, conn)
	ctx := context.Background()

	limit := 3
	coupon, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:           "BULK",
		DiscountAmount: decimal.NewFromInt(2),
		UsageLimit:     &limit,
	})
	require.NoError(t, err)

	require.NoError(t, repo.IncrementUsage(ctx, coupon.ID))
	require.NoError(t, repo.IncrementUsage(ctx, coupon.ID))

	reloaded, err := svc.GetCoupon(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.UsedCount)
}

func TestDiscountResolution(t *testing.T) {
	subtotal := decimal.NewFromInt(200)

	fixed := &models.Coupon{DiscountAmount: decimal.NewFromInt(15)}
	assert.True(t, Discount(fixed, subtotal).Equal(decimal.NewFromInt(15)))

	pct := &models.Coupon{DiscountPercentage: decimal.NewFromInt(10)}
	assert.True(t, Discount(pct, subtotal).Equal(decimal.NewFromInt(20)))

	// A fixed discount never exceeds the subtotal.
	big := &models.Coupon{DiscountAmount: decimal.NewFromInt(500)}
	assert.True(t, Discount(big, subtotal).Equal(subtotal))

	assert.True(t, Discount(nil, subtotal).IsZero())
}

func TestDeleteCouponBlockedOnceRedeemed(t *testing.T) {
	conn := setupCouponsTestDB(t)
	svc, _ := newCouponsService(t, conn)
	ctx := context.Background()

	coupon, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:           "ONEUSE",
		DiscountAmount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(
		"INSERT INTO orders (id, coupon_id) VALUES (?, ?)",
		uuid.NewString(), coupon.ID.String(),
	).Error)

	err = svc.DeleteCoupon(ctx, coupon.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	// An unredeemed coupon deletes cleanly.
	fresh, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:           "UNUSED",
		DiscountAmount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCoupon(ctx, fresh.ID))

	_, err = svc.GetCoupon(ctx, fresh.ID)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
