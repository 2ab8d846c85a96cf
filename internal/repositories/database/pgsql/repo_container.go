package pgsql

import (
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	belegRepo := newPgxBelegRepository(dbPool)
	journalRepo := newPgxJournalEntryRepository(dbPool, belegRepo)
	tenantRepo := newPgxTenantRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		BelegRepo:     belegRepo,
		JournalRepo:   journalRepo,
		TenantRepo:    tenantRepo,
		ReportingRepo: reportingRepo,
	}
}
