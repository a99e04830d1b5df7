package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	"github.com/iswift/iswift_backend/internal/models"
	"github.com/iswift/iswift_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOTPRepository struct {
	BaseRepository
}

func newPgxOTPRepository(pool *pgxpool.Pool) portsrepo.OTPRepository {
	return &PgxOTPRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OTPRepository = (*PgxOTPRepository)(nil)

func (r *PgxOTPRepository) FindOTPByUserID(ctx context.Context, userID string) (*domain.UserOTP, error) {
	query := `SELECT user_id, otp, otp_expiry, max_otp_try, otp_max_out FROM user_otps WHERE user_id = $1;`
	var m models.UserOTP
	err := r.Pool.QueryRow(ctx, query, userID).Scan(&m.UserID, &m.OTP, &m.OTPExpiry, &m.MaxOTPTry, &m.OTPMaxOut)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: otp of user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find otp of user %s: %w", userID, err)
	}
	otp := mapping.ToDomainUserOTP(m)
	return &otp, nil
}

func (r *PgxOTPRepository) SaveOTPInTx(ctx context.Context, tx pgx.Tx, otp domain.UserOTP) error {
	m := mapping.ToModelUserOTP(otp)
	query := `
		INSERT INTO user_otps (user_id, otp, otp_expiry, max_otp_try, otp_max_out, updated_at)
		VALUES ($1, $2, $3, $4, $5, now());
	`
	if _, err := tx.Exec(ctx, query, m.UserID, m.OTP, m.OTPExpiry, m.MaxOTPTry, m.OTPMaxOut); err != nil {
		return translateWriteError(err, "save otp of user "+m.UserID)
	}
	return nil
}

func (r *PgxOTPRepository) UpdateOTP(ctx context.Context, otp domain.UserOTP) error {
	return r.update(ctx, r.Pool, otp)
}

func (r *PgxOTPRepository) UpdateOTPInTx(ctx context.Context, tx pgx.Tx, otp domain.UserOTP) error {
	return r.update(ctx, tx, otp)
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *PgxOTPRepository) update(ctx context.Context, db execer, otp domain.UserOTP) error {
	m := mapping.ToModelUserOTP(otp)
	query := `
		UPDATE user_otps
		SET otp = $2, otp_expiry = $3, max_otp_try = $4, otp_max_out = $5, updated_at = now()
		WHERE user_id = $1;
	`
	cmdTag, err := db.Exec(ctx, query, m.UserID, m.OTP, m.OTPExpiry, m.MaxOTPTry, m.OTPMaxOut)
	if err != nil {
		return fmt.Errorf("failed to update otp of user %s: %w", m.UserID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: otp of user %s", apperrors.ErrNotFound, m.UserID)
	}
	return nil
}
