package postgres

import (
	"context"
	"fmt"

	"github.com/Strob0t/PropDesk/internal/domain/payment"
)

const paymentColumns = `id, lease_id, amount, due_date, paid_at, method, status, created_at, updated_at`

func scanPayment(row scannable) (payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(&p.ID, &p.LeaseID, &p.Amount, &p.DueDate, &p.PaidAt, &p.Method, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListPayments(ctx context.Context) ([]payment.Payment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE owner_id = $1 ORDER BY due_date DESC`,
		ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	payments, err := collect(rows, scanPayment)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (s *Store) ListPaymentsByLease(ctx context.Context, leaseID string) ([]payment.Payment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE lease_id = $1 AND owner_id = $2 ORDER BY due_date DESC`,
		leaseID, ownerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list payments for lease %s: %w", leaseID, constraintErr(err))
	}
	payments, err := collect(rows, scanPayment)
	if err != nil {
		return nil, fmt.Errorf("list payments for lease %s: %w", leaseID, constraintErr(err))
	}
	return payments, nil
}

func (s *Store) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := scanPayment(s.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 AND owner_id = $2`,
		id, ownerFromCtx(ctx)))
	if err != nil {
		return nil, notFoundWrap(err, "get payment %s", id)
	}
	return &p, nil
}

// CreatePayment inserts through the parent lease to enforce ownership.
func (s *Store) CreatePayment(ctx context.Context, req payment.CreateRequest) (*payment.Payment, error) {
	p, err := scanPayment(s.pool.QueryRow(ctx,
		`INSERT INTO payments (owner_id, lease_id, amount, due_date, paid_at, method, status)
		 SELECT l.owner_id, l.id, $3, $4, $5, $6, $7
		 FROM leases l WHERE l.id = $1 AND l.owner_id = $2
		 RETURNING `+paymentColumns,
		req.LeaseID, ownerFromCtx(ctx), req.Amount, dateOnly(req.DueDate), req.PaidAt, req.Method, req.Status))
	if err != nil {
		return nil, notFoundWrap(err, "create payment for lease %s", req.LeaseID)
	}
	return &p, nil
}

func (s *Store) UpdatePayment(ctx context.Context, p *payment.Payment) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE payments SET amount = $3, paid_at = $4, method = $5, status = $6, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING updated_at`,
		p.ID, ownerFromCtx(ctx), p.Amount, p.PaidAt, p.Method, p.Status).Scan(&p.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update payment %s", p.ID)
	}
	return nil
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1 AND owner_id = $2`, id, ownerFromCtx(ctx))
	return execExpectOne(tag, err, "delete payment %s", id)
}
