package repositories

import (
	"context"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OTPRepository stores one-time code state, one row per user.
type OTPRepository interface {
	FindOTPByUserID(ctx context.Context, userID string) (*domain.UserOTP, error)
	SaveOTPInTx(ctx context.Context, tx pgx.Tx, otp domain.UserOTP) error
	UpdateOTP(ctx context.Context, otp domain.UserOTP) error
	UpdateOTPInTx(ctx context.Context, tx pgx.Tx, otp domain.UserOTP) error
}
