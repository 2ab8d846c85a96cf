package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryFacade
	BelegRepo     BelegRepositoryFacade
	JournalRepo   JournalEntryRepositoryWithTx
	TenantRepo    TenantRepositoryFacade
	ReportingRepo ReportingRepository
}
