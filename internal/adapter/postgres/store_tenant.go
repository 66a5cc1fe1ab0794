package postgres

import (
	"context"
	"fmt"

	"github.com/Strob0t/PropDesk/internal/domain/tenant"
)

const tenantColumns = `id, owner_id, full_name, email, phone, created_at, updated_at`

func scanTenant(row scannable) (tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.OwnerID, &t.FullName, &t.Email, &t.Phone, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) ListTenants(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE owner_id = $1 ORDER BY full_name`,
		ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	tenants, err := collect(rows, scanTenant)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := scanTenant(s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1 AND owner_id = $2`,
		id, ownerFromCtx(ctx)))
	if err != nil {
		return nil, notFoundWrap(err, "get tenant %s", id)
	}
	return &t, nil
}

func (s *Store) CreateTenant(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	t, err := scanTenant(s.pool.QueryRow(ctx,
		`INSERT INTO tenants (owner_id, full_name, email, phone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+tenantColumns,
		ownerFromCtx(ctx), req.FullName, req.Email, req.Phone))
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", constraintErr(err))
	}
	return &t, nil
}

func (s *Store) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE tenants SET full_name = $3, email = $4, phone = $5, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING updated_at`,
		t.ID, ownerFromCtx(ctx), t.FullName, t.Email, t.Phone).Scan(&t.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update tenant %s", t.ID)
	}
	return nil
}

// DeleteTenant fails with domain.ErrConflict while a lease references the tenant.
func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1 AND owner_id = $2`, id, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "delete tenant %s", id)
}
