package services

import (
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
	"github.com/finflow/finflow_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rateProvider portssvc.RateProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)

	container.FxRate = NewFxRateService(rateProvider, cfg.FxCacheTTL)

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithFxRateService(container.FxRate),
	)

	container.Notification = NewNotificationService(repos.NotificationRepo)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.AccountRepo,
		container.FxRate,
		WithTransactionNotifier(container.Notification),
		WithTxnMaxRetries(cfg.TxnMaxRetries),
		WithTxnLockTimeout(cfg.TxnLockTimeout),
	)

	container.Bulk = NewBulkService(
		repos.BulkRepo,
		repos.AccountRepo,
		container.Transaction,
		WithBulkWorkerCount(cfg.BulkWorkerCount),
		WithBulkPollInterval(cfg.BulkPollInterval),
	)

	container.Analytics = NewAnalyticsService(repos.AnalyticsRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade     = (*accountServiceImpl)(nil)
	_ portssvc.TransactionSvcFacade = (*transactionServiceImpl)(nil)
	_ portssvc.BulkExecutor         = (*bulkServiceImpl)(nil)
)
