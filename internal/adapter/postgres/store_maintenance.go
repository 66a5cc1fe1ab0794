package postgres

import (
	"context"
	"fmt"

	"github.com/Strob0t/PropDesk/internal/domain/maintenance"
)

const maintenanceColumns = `id, unit_id, tenant_id, vendor_id, title, description, priority, status, completed_at, created_at, updated_at`

func scanMaintenance(row scannable) (maintenance.Request, error) {
	var (
		r                  maintenance.Request
		tenantID, vendorID *string
	)
	err := row.Scan(&r.ID, &r.UnitID, &tenantID, &vendorID, &r.Title, &r.Description, &r.Priority, &r.Status, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt)
	r.TenantID = derefString(tenantID)
	r.VendorID = derefString(vendorID)
	return r, err
}

func (s *Store) ListMaintenance(ctx context.Context) ([]maintenance.Request, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_requests WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list maintenance: %w", err)
	}
	reqs, err := collect(rows, scanMaintenance)
	if err != nil {
		return nil, fmt.Errorf("list maintenance: %w", err)
	}
	return reqs, nil
}

func (s *Store) ListMaintenanceByUnit(ctx context.Context, unitID string) ([]maintenance.Request, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_requests WHERE unit_id = $1 AND owner_id = $2 ORDER BY created_at DESC`,
		unitID, ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list maintenance for unit %s: %w", unitID, constraintErr(err))
	}
	reqs, err := collect(rows, scanMaintenance)
	if err != nil {
		return nil, fmt.Errorf("list maintenance for unit %s: %w", unitID, constraintErr(err))
	}
	return reqs, nil
}

func (s *Store) GetMaintenance(ctx context.Context, id string) (*maintenance.Request, error) {
	r, err := scanMaintenance(s.pool.QueryRow(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_requests WHERE id = $1 AND owner_id = $2`,
		id, ownerFromCtx(ctx)))
	if err != nil {
		return nil, notFoundWrap(err, "get maintenance request %s", id)
	}
	return &r, nil
}

// CreateMaintenance inserts through the parent unit to enforce ownership.
// The service checks that optional tenant and vendor references belong to
// the same owner.
func (s *Store) CreateMaintenance(ctx context.Context, req maintenance.CreateRequest) (*maintenance.Request, error) {
	r, err := scanMaintenance(s.pool.QueryRow(ctx,
		`INSERT INTO maintenance_requests (owner_id, unit_id, tenant_id, vendor_id, title, description, priority)
		 SELECT u.owner_id, u.id, $3, $4, $5, $6, $7
		 FROM units u WHERE u.id = $1 AND u.owner_id = $2
		 RETURNING `+maintenanceColumns,
		req.UnitID, ownerFromCtx(ctx), nullIfEmpty(req.TenantID), nullIfEmpty(req.VendorID), req.Title, req.Description, req.Priority))
	if err != nil {
		return nil, notFoundWrap(err, "create maintenance request for unit %s", req.UnitID)
	}
	return &r, nil
}

func (s *Store) UpdateMaintenance(ctx context.Context, r *maintenance.Request) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE maintenance_requests
		 SET vendor_id = $3, title = $4, description = $5, priority = $6, status = $7, completed_at = $8, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING updated_at`,
		r.ID, ownerFromCtx(ctx), nullIfEmpty(r.VendorID), r.Title, r.Description, r.Priority, r.Status, r.CompletedAt).Scan(&r.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update maintenance request %s", r.ID)
	}
	return nil
}

func (s *Store) DeleteMaintenance(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM maintenance_requests WHERE id = $1 AND owner_id = $2`, id, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "delete maintenance request %s", id)
}
