package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
)

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenant and membership data.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

// SaveTenant persists a new tenant.
func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	query := `
		INSERT INTO tenants (
			tenant_id, name, description, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		tenant.TenantID,
		tenant.Name,
		tenant.Description,
		tenant.IsActive,
		tenant.CreatedAt,
		tenant.CreatedBy,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert tenant "+tenant.TenantID, err)
	}
	return nil
}

// FindTenantByID retrieves a tenant by its ID.
func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, description, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM tenants
		WHERE tenant_id = $1;
	`
	var tenant domain.Tenant
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(
		&tenant.TenantID,
		&tenant.Name,
		&tenant.Description,
		&tenant.IsActive,
		&tenant.CreatedAt,
		&tenant.CreatedBy,
		&tenant.LastUpdatedAt,
		&tenant.LastUpdatedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tenant "+tenantID, err)
	}
	return &tenant, nil
}

// AddUserToTenant persists a user membership. The membership is upserted so
// re-adding a previously removed user reinstates them with the new role.
func (r *PgxTenantRepository) AddUserToTenant(ctx context.Context, membership domain.UserTenant) error {
	query := `
		INSERT INTO tenant_users (user_id, tenant_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, tenant_id)
		DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.TenantID,
		membership.Role,
		membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewAppError(404, "tenant "+membership.TenantID+" not found", apperrors.ErrNotFound)
		}
		return apperrors.NewAppError(500, "failed to add user "+membership.UserID+" to tenant "+membership.TenantID, err)
	}
	return nil
}

// FindUserTenantRole retrieves the membership of a user in a tenant.
func (r *PgxTenantRepository) FindUserTenantRole(ctx context.Context, userID, tenantID string) (*domain.UserTenant, error) {
	query := `
		SELECT user_id, tenant_id, role, joined_at
		FROM tenant_users
		WHERE user_id = $1 AND tenant_id = $2;
	`
	var membership domain.UserTenant
	err := r.Pool.QueryRow(ctx, query, userID, tenantID).Scan(
		&membership.UserID,
		&membership.TenantID,
		&membership.Role,
		&membership.JoinedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership of user "+userID+" in tenant "+tenantID, err)
	}
	return &membership, nil
}
