package pgsql

import (
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	bulkRepo := newPgxBulkRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)
	analyticsRepo := newAnalyticsRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:         userRepo,
		AccountRepo:      accountRepo,
		TransactionRepo:  transactionRepo,
		BulkRepo:         bulkRepo,
		NotificationRepo: notificationRepo,
		AnalyticsRepo:    analyticsRepo,
	}
}
