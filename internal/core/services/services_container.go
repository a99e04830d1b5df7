package services

import (
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/platform/config"
	"github.com/iswift/iswift_backend/internal/platform/metrics"
	"github.com/iswift/iswift_backend/internal/utils"
)

// ContainerDeps are the infrastructure collaborators that are not repositories.
// Nil fields fall back to in-process implementations.
type ContainerDeps struct {
	Metrics      *metrics.Metrics
	Posthog      *utils.PosthogClientWrapper
	RateProvider portssvc.RateProvider
	OTPSender    portssvc.OTPSender
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps ContainerDeps) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	if deps.OTPSender == nil {
		deps.OTPSender = NewLogOTPSender()
	}
	notifier := MultiNotifier{NewLogNotifier()}
	if deps.Posthog.IsInitialized() {
		notifier = append(notifier, NewPosthogNotifier(deps.Posthog))
	}

	container.Currency = NewCurrencyService(repos.CurrencyRepo, repos.ExchangeRateRepo)
	container.History = NewTransactionHistoryService(repos.AccountRepo, repos.LedgerEntryRepo, repos.UserRepo)
	container.Account = NewAccountService(
		repos.AccountRepo,
		WithCurrencyRepository(repos.CurrencyRepo),
		WithLedgerEntryWriter(repos.LedgerEntryRepo),
		WithRateResolver(container.Currency),
		WithTransactionHistory(container.History),
	)
	container.Transfer = NewTransferService(
		repos.AccountRepo,
		repos.UserRepo,
		repos.LedgerEntryRepo,
		container.Account,
		WithNotifier(notifier),
		WithTransferMetrics(deps.Metrics),
	)

	otpSettings := OTPSettingsFromConfig(cfg)
	container.User = NewUserService(repos.UserRepo, repos.OTPRepo, deps.OTPSender, otpSettings)
	container.OTP = NewOTPService(repos.UserRepo, repos.OTPRepo, deps.OTPSender, otpSettings)
	container.Token = NewTokenService(cfg)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg, repos.UserRepo)

	if deps.RateProvider != nil {
		container.RateRefresh = NewRateRefreshService(repos.CurrencyRepo, repos.ExchangeRateRepo, deps.RateProvider, cfg.RatesFetchConcurrency, deps.Metrics)
	}

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade            = (*accountService)(nil)
	_ portssvc.UserSvcFacade               = (*UserService)(nil)
	_ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)
	_ portssvc.TokenSvcFacade              = (*tokenService)(nil)
	_ portssvc.RateRefreshSvc              = (*rateRefreshService)(nil)
	_ portssvc.Notifier                    = MultiNotifier(nil)
)
