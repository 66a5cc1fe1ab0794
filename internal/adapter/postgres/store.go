package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/PropDesk/internal/domain/property"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Properties ---

const propertyColumns = `id, owner_id, name, address, city, state, postal_code, kind, created_at, updated_at`

func scanProperty(row scannable) (property.Property, error) {
	var p property.Property
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.City, &p.State, &p.PostalCode, &p.Kind, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProperties(ctx context.Context) ([]property.Property, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	props, err := collect(rows, scanProperty)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return props, nil
}

func (s *Store) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	p, err := scanProperty(s.pool.QueryRow(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1 AND owner_id = $2`,
		id, ownerFromCtx(ctx)))
	if err != nil {
		return nil, notFoundWrap(err, "get property %s", id)
	}
	return &p, nil
}

func (s *Store) CreateProperty(ctx context.Context, req property.CreateRequest) (*property.Property, error) {
	p, err := scanProperty(s.pool.QueryRow(ctx,
		`INSERT INTO properties (owner_id, name, address, city, state, postal_code, kind)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+propertyColumns,
		ownerFromCtx(ctx), req.Name, req.Address, req.City, req.State, req.PostalCode, req.Kind))
	if err != nil {
		return nil, fmt.Errorf("create property: %w", constraintErr(err))
	}
	return &p, nil
}

func (s *Store) UpdateProperty(ctx context.Context, p *property.Property) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE properties SET name = $3, address = $4, city = $5, state = $6, postal_code = $7, kind = $8, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING updated_at`,
		p.ID, ownerFromCtx(ctx), p.Name, p.Address, p.City, p.State, p.PostalCode, p.Kind).Scan(&p.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update property %s", p.ID)
	}
	return nil
}

func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1 AND owner_id = $2`, id, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "delete property %s", id)
}
