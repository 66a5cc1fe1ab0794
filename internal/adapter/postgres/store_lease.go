package postgres

import (
	"context"
	"fmt"

	"github.com/Strob0t/PropDesk/internal/domain/lease"
)

const leaseColumns = `id, unit_id, tenant_id, start_date, end_date, monthly_rent, deposit, status, created_at, updated_at`

func scanLease(row scannable) (lease.Lease, error) {
	var l lease.Lease
	err := row.Scan(&l.ID, &l.UnitID, &l.TenantID, &l.StartDate, &l.EndDate, &l.MonthlyRent, &l.Deposit, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (s *Store) ListLeases(ctx context.Context) ([]lease.Lease, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+leaseColumns+` FROM leases WHERE owner_id = $1 ORDER BY start_date DESC`,
		ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list leases: %w", err)
	}
	leases, err := collect(rows, scanLease)
	if err != nil {
		return nil, fmt.Errorf("list leases: %w", err)
	}
	return leases, nil
}

func (s *Store) ListLeasesByUnit(ctx context.Context, unitID string) ([]lease.Lease, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+leaseColumns+` FROM leases WHERE unit_id = $1 AND owner_id = $2 ORDER BY start_date DESC`,
		unitID, ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list leases for unit %s: %w", unitID, constraintErr(err))
	}
	leases, err := collect(rows, scanLease)
	if err != nil {
		return nil, fmt.Errorf("list leases for unit %s: %w", unitID, constraintErr(err))
	}
	return leases, nil
}

func (s *Store) GetLease(ctx context.Context, id string) (*lease.Lease, error) {
	l, err := scanLease(s.pool.QueryRow(ctx,
		`SELECT `+leaseColumns+` FROM leases WHERE id = $1 AND owner_id = $2`,
		id, ownerFromCtx(ctx)))
	if err != nil {
		return nil, notFoundWrap(err, "get lease %s", id)
	}
	return &l, nil
}

// CreateLease only inserts when both the unit and the tenant belong to the owner.
func (s *Store) CreateLease(ctx context.Context, req lease.CreateRequest) (*lease.Lease, error) {
	l, err := scanLease(s.pool.QueryRow(ctx,
		`INSERT INTO leases (owner_id, unit_id, tenant_id, start_date, end_date, monthly_rent, deposit, status)
		 SELECT u.owner_id, u.id, t.id, $4, $5, $6, $7, $8
		 FROM units u JOIN tenants t ON t.owner_id = u.owner_id
		 WHERE u.id = $1 AND t.id = $2 AND u.owner_id = $3
		 RETURNING `+leaseColumns,
		req.UnitID, req.TenantID, ownerFromCtx(ctx),
		dateOnly(req.StartDate), dateOnly(req.EndDate), req.MonthlyRent, req.Deposit, req.Status))
	if err != nil {
		return nil, notFoundWrap(err, "create lease for unit %s tenant %s", req.UnitID, req.TenantID)
	}
	return &l, nil
}

func (s *Store) UpdateLease(ctx context.Context, l *lease.Lease) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE leases SET start_date = $3, end_date = $4, monthly_rent = $5, deposit = $6, status = $7, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING updated_at`,
		l.ID, ownerFromCtx(ctx), dateOnly(l.StartDate), dateOnly(l.EndDate), l.MonthlyRent, l.Deposit, l.Status).Scan(&l.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update lease %s", l.ID)
	}
	return nil
}

func (s *Store) DeleteLease(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM leases WHERE id = $1 AND owner_id = $2`, id, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "delete lease %s", id)
}
