package services

import (
	"context"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers returns a page of public profiles, excluding the caller, and the
	// token of the next page if there is one.
	ListUsers(ctx context.Context, callerID string, params dto.ListUsersParams) ([]domain.User, *string, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// Signup creates an inactive user and sends the first OTP.
	Signup(ctx context.Context, req dto.SignupRequest) (*domain.User, error)
}

// UserAuthSvc checks credentials
type UserAuthSvc interface {
	// AuthenticateUser returns the active user matching email and password.
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}

// OTPSvc issues and verifies one-time codes.
type OTPSvc interface {
	// RegenerateOTP issues a new code for an inactive user, subject to the try limit.
	RegenerateOTP(ctx context.Context, phoneNumber string) error

	// VerifyOTP checks the code and activates the user.
	VerifyOTP(ctx context.Context, phoneNumber string, otp string) (*domain.User, error)
}

// OTPSender delivers a code to a phone number.
type OTPSender interface {
	SendOTP(ctx context.Context, countryCode string, phoneNumber string, otp string) error
}
