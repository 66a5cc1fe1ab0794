package postgres

import (
	"context"
	"fmt"

	"github.com/Strob0t/PropDesk/internal/domain/vendor"
)

const vendorColumns = `id, owner_id, name, trade, email, phone, created_at, updated_at`

func scanVendor(row scannable) (vendor.Vendor, error) {
	var v vendor.Vendor
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Trade, &v.Email, &v.Phone, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (s *Store) ListVendors(ctx context.Context) ([]vendor.Vendor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE owner_id = $1 ORDER BY name`,
		ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	vendors, err := collect(rows, scanVendor)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, nil
}

func (s *Store) GetVendor(ctx context.Context, id string) (*vendor.Vendor, error) {
	v, err := scanVendor(s.pool.QueryRow(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE id = $1 AND owner_id = $2`,
		id, ownerFromCtx(ctx)))
	if err != nil {
		return nil, notFoundWrap(err, "get vendor %s", id)
	}
	return &v, nil
}

func (s *Store) CreateVendor(ctx context.Context, req vendor.CreateRequest) (*vendor.Vendor, error) {
	v, err := scanVendor(s.pool.QueryRow(ctx,
		`INSERT INTO vendors (owner_id, name, trade, email, phone)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+vendorColumns,
		ownerFromCtx(ctx), req.Name, req.Trade, req.Email, req.Phone))
	if err != nil {
		return nil, fmt.Errorf("create vendor: %w", constraintErr(err))
	}
	return &v, nil
}

func (s *Store) UpdateVendor(ctx context.Context, v *vendor.Vendor) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE vendors SET name = $3, trade = $4, email = $5, phone = $6, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING updated_at`,
		v.ID, ownerFromCtx(ctx), v.Name, v.Trade, v.Email, v.Phone).Scan(&v.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update vendor %s", v.ID)
	}
	return nil
}

func (s *Store) DeleteVendor(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1 AND owner_id = $2`, id, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "delete vendor %s", id)
}
