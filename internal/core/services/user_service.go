package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/iswift/iswift_backend/internal/utils"
	"github.com/iswift/iswift_backend/internal/utils/pagination"
)

// UserService provides business logic for user management.
type UserService struct {
	BaseService
	userRepo  portsrepo.UserRepositoryWithTx
	otpRepo   portsrepo.OTPRepository
	otpSender portssvc.OTPSender
	otp       OTPSettings
	now       Clock
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryWithTx, otpRepo portsrepo.OTPRepository, otpSender portssvc.OTPSender, settings OTPSettings) *UserService {
	return &UserService{
		userRepo:  userRepo,
		otpRepo:   otpRepo,
		otpSender: otpSender,
		otp:       settings,
		now:       systemClock,
	}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// Signup registers an inactive user and sends the first OTP. The user and OTP
// rows are written together.
func (s *UserService) Signup(ctx context.Context, req dto.SignupRequest) (*domain.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordsDiffer
	}
	email := normalizeEmail(req.Email)

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: a user with this email already exists", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.userRepo.FindUserByPhoneNumber(ctx, req.PhoneNumber); err == nil {
		return nil, fmt.Errorf("%w: a user with this phone number already exists", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check phone number: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooShort) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PhoneNumber:  req.PhoneNumber,
		CountryCode:  req.CountryCode,
		PasswordHash: hash,
		IsActive:     false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	otp := domain.UserOTP{UserID: userID, MaxOTPTry: s.otp.MaxTries}
	code, err := issueOTP(&otp, s.otp, now)
	if err != nil {
		return nil, err
	}

	tx, err := s.userRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, s.userRepo, tx, &committed)

	if err := s.userRepo.SaveUserInTx(ctx, tx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user")
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if err := s.otpRepo.SaveOTPInTx(ctx, tx, otp); err != nil {
		s.LogError(ctx, err, "Failed to save user OTP", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save otp: %w", err)
	}
	if err := s.userRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	committed = true

	s.LogInfo(ctx, "User signed up", slog.String("user_id", userID))
	if err := s.otpSender.SendOTP(ctx, user.CountryCode, user.PhoneNumber, code); err != nil {
		// The user can ask for a new code.
		s.LogError(ctx, err, "Failed to send OTP", slog.String("user_id", userID))
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns a page of users other than the caller, and a token for the
// next page when one exists.
func (s *UserService) ListUsers(ctx context.Context, callerID string, params dto.ListUsersParams) ([]domain.User, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	filter := portsrepo.UserListFilter{
		ExcludeUserID: callerID,
		Search:        strings.TrimSpace(params.Search),
		Limit:         limit + 1,
	}
	if params.NextToken != "" {
		createdAt, userID, err := pagination.DecodeCursor(params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		filter.After = &portsrepo.UserCursor{CreatedAt: createdAt, UserID: userID}
	}

	users, err := s.userRepo.ListUsers(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}

	var next *string
	if len(users) > limit {
		users = users[:limit]
		last := users[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.UserID)
		next = &token
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, next, nil
}

// AuthenticateUser checks email and password. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogDebug(ctx, "Password mismatch", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
