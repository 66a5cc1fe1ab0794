package service

import (
	"context"

	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain/payment"
	"github.com/Strob0t/PropDesk/internal/port/database"
)

// PaymentService handles payment business logic.
type PaymentService struct {
	store database.Store
	res   *resource[payment.Payment]
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(store database.Store, deps CacheDeps, ttl config.ResourceTTLs) *PaymentService {
	return &PaymentService{
		store: store,
		res:   newResource[payment.Payment](deps, "payments", "payment", ttl.Payments, nil),
	}
}

// List returns every payment the owner has recorded.
func (s *PaymentService) List(ctx context.Context) ([]payment.Payment, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx), s.store.ListPayments)
}

// ListByLease returns the payments of one lease.
func (s *PaymentService) ListByLease(ctx context.Context, leaseID string) ([]payment.Payment, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx, "lease", leaseID), func(ctx context.Context) ([]payment.Payment, error) {
		return s.store.ListPaymentsByLease(ctx, leaseID)
	})
}

// Get returns a payment by ID.
func (s *PaymentService) Get(ctx context.Context, id string) (*payment.Payment, error) {
	return s.res.fetchItem(ctx, id, func(ctx context.Context) (*payment.Payment, error) {
		return s.store.GetPayment(ctx, id)
	})
}

// Create validates and records a payment.
func (s *PaymentService) Create(ctx context.Context, req payment.CreateRequest) (*payment.Payment, error) {
	if err := payment.ValidateCreate(&req); err != nil {
		return nil, err
	}
	p, err := s.store.CreatePayment(ctx, req)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "", p.LeaseID)
	return p, nil
}

// Update applies a partial update to a payment.
func (s *PaymentService) Update(ctx context.Context, id string, req payment.UpdateRequest) (*payment.Payment, error) {
	if err := payment.ValidateUpdate(req); err != nil {
		return nil, err
	}
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(req)
	if err := s.store.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}
	s.changed(ctx, id, p.LeaseID)
	return p, nil
}

// Delete removes a payment.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeletePayment(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, id, p.LeaseID)
	return nil
}

func (s *PaymentService) changed(ctx context.Context, id, leaseID string) {
	s.res.changed(ctx, id, []string{"lease", leaseID})
}
