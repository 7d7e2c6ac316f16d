package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	AccountRepo      AccountRepositoryWithTx
	TransactionRepo  TransactionRepositoryWithTx
	BulkRepo         BulkRepositoryWithTx
	NotificationRepo NotificationRepositoryFacade
	AnalyticsRepo    AnalyticsRepository
}
