package services

import (
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
)

// NewServiceContainer wires all services against the repository provider.
// The tenant service doubles as the authorizer for every other service.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	tenantSvc := NewTenantService(repos.TenantRepo)
	accountSvc := NewAccountService(repos.AccountRepo, WithTenantAuthorizer(tenantSvc))
	belegSvc := NewBelegService(repos.BelegRepo, WithBelegTenantAuthorizer(tenantSvc))
	bookingSvc := NewBookingService(repos.JournalRepo, accountSvc, tenantSvc)
	reportingSvc := NewReportingService(repos.ReportingRepo, accountSvc, tenantSvc)

	return &portssvc.ServiceContainer{
		Tenant:    tenantSvc,
		Account:   accountSvc,
		Beleg:     belegSvc,
		Booking:   bookingSvc,
		Reporting: reportingSvc,
	}
}
