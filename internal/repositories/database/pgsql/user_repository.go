package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	"github.com/iswift/iswift_backend/internal/models"
	"github.com/iswift/iswift_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryWithTx {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryWithTx
var _ portsrepo.UserRepositoryWithTx = (*PgxUserRepository)(nil)

const userColumns = `user_id, email, first_name, last_name, phone_number, country_code, password_hash, is_active, has_verified_email, created_at, created_by, last_updated_at, last_updated_by`

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.FirstName,
		&m.LastName,
		&m.PhoneNumber,
		&m.CountryCode,
		&m.PasswordHash,
		&m.IsActive,
		&m.HasVerifiedEmail,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxUserRepository) findOne(ctx context.Context, column string, value string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1;`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user with %s %s", apperrors.ErrNotFound, column, value)
		}
		return nil, fmt.Errorf("failed to find user by %s: %w", column, err)
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "user_id", userID)
}

// FindUserByEmail matches case-insensitively; emails are stored lower-cased.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (r *PgxUserRepository) FindUserByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error) {
	return r.findOne(ctx, "phone_number", phoneNumber)
}

// FindUsersByIDs retrieves several users at once.
func (r *PgxUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	users := make(map[string]domain.User, len(userIDs))
	if len(userIDs) == 0 {
		return users, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users[m.UserID] = mapping.ToDomainUser(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// ListUsers pages through active users with keyset pagination on (created_at, user_id).
func (r *PgxUserRepository) ListUsers(ctx context.Context, filter portsrepo.UserListFilter) ([]domain.User, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + userColumns + ` FROM users WHERE is_active AND user_id <> $1`)
	args := []interface{}{filter.ExcludeUserID}

	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		fmt.Fprintf(&sb, ` AND (first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR phone_number ILIKE $%[1]d)`, len(args))
	}
	if filter.After != nil {
		args = append(args, filter.After.CreatedAt, filter.After.UserID)
		fmt.Fprintf(&sb, ` AND (created_at, user_id) > ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, filter.Limit)
	fmt.Fprintf(&sb, ` ORDER BY created_at, user_id LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, mapping.ToDomainUser(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// SaveUserInTx inserts a new user. Unique email or phone violations map to apperrors.ErrDuplicate.
func (r *PgxUserRepository) SaveUserInTx(ctx context.Context, tx pgx.Tx, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err := tx.Exec(ctx, query,
		m.UserID,
		strings.ToLower(strings.TrimSpace(m.Email)),
		m.FirstName,
		m.LastName,
		m.PhoneNumber,
		m.CountryCode,
		m.PasswordHash,
		m.IsActive,
		m.HasVerifiedEmail,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "save user "+m.UserID)
	}
	return nil
}

// ActivateUserInTx marks a user active.
func (r *PgxUserRepository) ActivateUserInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) error {
	query := `UPDATE users SET is_active = true, last_updated_at = $2, last_updated_by = $1 WHERE user_id = $1;`
	cmdTag, err := tx.Exec(ctx, query, userID, now)
	if err != nil {
		return fmt.Errorf("failed to activate user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return nil
}
