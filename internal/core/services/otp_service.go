package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/platform/config"
	"github.com/iswift/iswift_backend/internal/utils"
)

// OTPDigits is the length of generated codes.
const OTPDigits = 6

// OTPSettings controls code lifetime and the regeneration budget.
type OTPSettings struct {
	MaxTries int
	Expiry   time.Duration
	MaxOut   time.Duration // Cooldown once MaxTries codes have been issued
}

// OTPSettingsFromConfig reads the OTP settings from cfg.
func OTPSettingsFromConfig(cfg *config.Config) OTPSettings {
	return OTPSettings{
		MaxTries: cfg.MaxOTPTry,
		Expiry:   cfg.OTPExpiryDuration,
		MaxOut:   cfg.OTPMaxOutDuration,
	}
}

func issueOTP(otp *domain.UserOTP, settings OTPSettings, now time.Time) (string, error) {
	code, err := utils.GenerateNumericCode(OTPDigits)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	otp.Issue(code, now, settings.Expiry, settings.MaxOut, settings.MaxTries)
	return code, nil
}

type otpService struct {
	BaseService
	userRepo portsrepo.UserRepositoryWithTx
	otpRepo  portsrepo.OTPRepository
	sender   portssvc.OTPSender
	settings OTPSettings
	now      Clock
}

// NewOTPService creates the phone verification service.
func NewOTPService(userRepo portsrepo.UserRepositoryWithTx, otpRepo portsrepo.OTPRepository, sender portssvc.OTPSender, settings OTPSettings) portssvc.OTPSvc {
	return &otpService{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		sender:   sender,
		settings: settings,
		now:      systemClock,
	}
}

var _ portssvc.OTPSvc = (*otpService)(nil)

func (s *otpService) inactiveUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, *domain.UserOTP, error) {
	user, err := s.userRepo.FindUserByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: no user with this phone number", apperrors.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.IsActive {
		return nil, nil, apperrors.ErrAlreadyActive
	}
	otp, err := s.otpRepo.FindOTPByUserID(ctx, user.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load otp: %w", err)
	}
	return user, otp, nil
}

// RegenerateOTP issues and sends a fresh code unless the user is in cooldown.
func (s *otpService) RegenerateOTP(ctx context.Context, phoneNumber string) error {
	user, otp, err := s.inactiveUserByPhone(ctx, phoneNumber)
	if err != nil {
		return err
	}
	now := s.now()
	if !otp.CanGenerate(now) {
		s.LogInfo(ctx, "OTP regeneration refused during cooldown", slog.String("user_id", user.UserID))
		return apperrors.ErrOTPMaxTries
	}

	code, err := issueOTP(otp, s.settings, now)
	if err != nil {
		return err
	}
	if err := s.otpRepo.UpdateOTP(ctx, *otp); err != nil {
		s.LogError(ctx, err, "Failed to store OTP", slog.String("user_id", user.UserID))
		return fmt.Errorf("failed to store otp: %w", err)
	}
	if err := s.sender.SendOTP(ctx, user.CountryCode, user.PhoneNumber, code); err != nil {
		s.LogError(ctx, err, "Failed to send OTP", slog.String("user_id", user.UserID))
		return fmt.Errorf("failed to send otp: %w", err)
	}
	return nil
}

// VerifyOTP activates the user when otp matches the unexpired code.
func (s *otpService) VerifyOTP(ctx context.Context, phoneNumber string, code string) (*domain.User, error) {
	user, otp, err := s.inactiveUserByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !otp.IsValid(code, now) {
		return nil, apperrors.ErrInvalidOTP
	}
	otp.Consume(s.settings.MaxTries)

	tx, err := s.userRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, s.userRepo, tx, &committed)

	if err := s.otpRepo.UpdateOTPInTx(ctx, tx, *otp); err != nil {
		return nil, fmt.Errorf("failed to update otp: %w", err)
	}
	if err := s.userRepo.ActivateUserInTx(ctx, tx, user.UserID, now); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}
	if err := s.userRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	committed = true

	s.LogInfo(ctx, "User verified", slog.String("user_id", user.UserID))
	user.IsActive = true
	user.LastUpdatedAt = now
	return user, nil
}

// logOTPSender writes codes to the log. It stands in for an SMS gateway.
type logOTPSender struct {
	BaseService
}

// NewLogOTPSender returns an OTPSender that logs the code at debug level.
func NewLogOTPSender() portssvc.OTPSender {
	return &logOTPSender{}
}

func (s *logOTPSender) SendOTP(ctx context.Context, countryCode string, phoneNumber string, otp string) error {
	s.LogDebug(ctx, "OTP issued",
		slog.String("country_code", countryCode),
		slog.String("phone_number", phoneNumber),
		slog.String("otp", otp))
	return nil
}
