package repositories

import (
	"context"
	"time"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// UserReader defines read operations for user data
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error)

	// FindUsersByIDs retrieves several users at once; missing IDs are absent from the map.
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)

	// ListUsers pages through active users ordered by (created_at, user_id).
	ListUsers(ctx context.Context, filter UserListFilter) ([]domain.User, error)
}

// UserListFilter selects a page of users. A nil After starts from the beginning.
type UserListFilter struct {
	ExcludeUserID string
	Search        string // Matches first name, last name or phone number
	After         *UserCursor
	Limit         int
}

// UserCursor is the keyset position of the last user of a page.
type UserCursor struct {
	CreatedAt time.Time
	UserID    string
}

// UserWriter defines write operations for user data
type UserWriter interface {
	SaveUserInTx(ctx context.Context, tx pgx.Tx, user domain.User) error
	ActivateUserInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}

// UserRepositoryWithTx extends UserRepositoryFacade with transaction capabilities
type UserRepositoryWithTx interface {
	UserRepositoryFacade
	TransactionManager
}
