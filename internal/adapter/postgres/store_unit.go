package postgres

import (
	"context"
	"fmt"

	"github.com/Strob0t/PropDesk/internal/domain/unit"
)

const unitColumns = `id, property_id, label, bedrooms, bathrooms, square_feet, market_rent, status, created_at, updated_at`

func scanUnit(row scannable) (unit.Unit, error) {
	var u unit.Unit
	err := row.Scan(&u.ID, &u.PropertyID, &u.Label, &u.Bedrooms, &u.Bathrooms, &u.SquareFeet, &u.MarketRent, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *Store) ListUnits(ctx context.Context) ([]unit.Unit, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+unitColumns+` FROM units WHERE owner_id = $1 ORDER BY property_id, label`,
		ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	units, err := collect(rows, scanUnit)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

func (s *Store) ListUnitsByProperty(ctx context.Context, propertyID string) ([]unit.Unit, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+unitColumns+` FROM units WHERE property_id = $1 AND owner_id = $2 ORDER BY label`,
		propertyID, ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list units for property %s: %w", propertyID, constraintErr(err))
	}
	units, err := collect(rows, scanUnit)
	if err != nil {
		return nil, fmt.Errorf("list units for property %s: %w", propertyID, constraintErr(err))
	}
	return units, nil
}

func (s *Store) GetUnit(ctx context.Context, id string) (*unit.Unit, error) {
	u, err := scanUnit(s.pool.QueryRow(ctx,
		`SELECT `+unitColumns+` FROM units WHERE id = $1 AND owner_id = $2`,
		id, ownerFromCtx(ctx)))
	if err != nil {
		return nil, notFoundWrap(err, "get unit %s", id)
	}
	return &u, nil
}

// CreateUnit inserts through the parent property so a unit can only be
// added to a property the owner holds.
func (s *Store) CreateUnit(ctx context.Context, req unit.CreateRequest) (*unit.Unit, error) {
	u, err := scanUnit(s.pool.QueryRow(ctx,
		`INSERT INTO units (owner_id, property_id, label, bedrooms, bathrooms, square_feet, market_rent, status)
		 SELECT p.owner_id, p.id, $3, $4, $5, $6, $7, $8
		 FROM properties p WHERE p.id = $1 AND p.owner_id = $2
		 RETURNING `+unitColumns,
		req.PropertyID, ownerFromCtx(ctx), req.Label, req.Bedrooms, req.Bathrooms, req.SquareFeet, req.MarketRent, req.Status))
	if err != nil {
		return nil, notFoundWrap(err, "create unit in property %s", req.PropertyID)
	}
	return &u, nil
}

func (s *Store) UpdateUnit(ctx context.Context, u *unit.Unit) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE units SET label = $3, bedrooms = $4, bathrooms = $5, square_feet = $6, market_rent = $7, status = $8, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING updated_at`,
		u.ID, ownerFromCtx(ctx), u.Label, u.Bedrooms, u.Bathrooms, u.SquareFeet, u.MarketRent, u.Status).Scan(&u.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update unit %s", u.ID)
	}
	return nil
}

func (s *Store) DeleteUnit(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM units WHERE id = $1 AND owner_id = $2`, id, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "delete unit %s", id)
}
