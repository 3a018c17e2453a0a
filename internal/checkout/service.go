// Package checkout reconciles the session ledger against the dbackf backend.
// Preconditions run in order before any network traffic; a successful order is
// the only network-triggered event that clears session state.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/dbackf/storefront/internal/backend"
	"github.com/dbackf/storefront/internal/cart"
	pkgerrors "github.com/dbackf/storefront/pkg/errors"
	"github.com/dbackf/storefront/pkg/logger"
	"github.com/dbackf/storefront/pkg/metrics"
)

const (
	orderStatusPending = "pending"

	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeUpstream = "upstream_error"
	outcomeConflict = "conflict"

	// Generous upper bound on one submission; the lock self-expires if the
	// process dies mid-flight.
	lockTTL = 2 * time.Minute
)

type orderPoster interface {
	CreateOrder(ctx context.Context, payload backend.OrderPayload) (*backend.OrderConfirmation, error)
}

type submitLocker interface {
	TryCheckoutLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, sessionID string) error
}

// Receipt is returned on a successful submission.
type Receipt struct {
	OrderID     int64           `json:"order_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

type Service interface {
	Submit(ctx context.Context, sessionID string) (*Receipt, error)
}

type ServiceParams struct {
	Cart          cart.Service
	Store         cart.Store
	Orders        orderPoster
	Locks         submitLocker
	Notes         string
	PaymentMethod string
	Metrics       *metrics.StorefrontMetrics
	Logger        *logger.Logger
}

type service struct {
	cart          cart.Service
	store         cart.Store
	orders        orderPoster
	locks         submitLocker
	notes         string
	paymentMethod string
	metrics       *metrics.StorefrontMetrics
	logg          *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, errors.New("checkout: cart service is required")
	}
	if params.Store == nil {
		return nil, errors.New("checkout: cart store is required")
	}
	if params.Orders == nil {
		return nil, errors.New("checkout: order client is required")
	}
	if params.Locks == nil {
		return nil, errors.New("checkout: submit locker is required")
	}
	return &service{
		cart:          params.Cart,
		store:         params.Store,
		orders:        params.Orders,
		locks:         params.Locks,
		notes:         params.Notes,
		paymentMethod: params.PaymentMethod,
		metrics:       params.Metrics,
		logg:          params.Logger,
	}, nil
}

// Submit runs the precondition chain, posts the order, and on success clears
// every piece of session checkout state. On failure the ledger is untouched so
// the shopper can retry manually; each retry rebuilds the payload fresh.
func (s *service) Submit(ctx context.Context, sessionID string) (*Receipt, error) {
	start := time.Now()
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	acquired, err := s.locks.TryCheckoutLock(ctx, sessionID, lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not reserve checkout slot")
	}
	if !acquired {
		s.observe(outcomeConflict, start)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already in progress for this session")
	}
	defer func() {
		if err := s.locks.ReleaseCheckoutLock(ctx, sessionID); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "checkout.lock release failed")
		}
	}()

	snap, err := s.cart.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if snap.Empty() {
		s.observe(outcomeRejected, start)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	if snap.Customer == nil {
		s.observe(outcomeRejected, start)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no customer selected")
	}

	payload := buildPayload(snap, s.notes, s.paymentMethod)
	confirmation, err := s.orders.CreateOrder(ctx, payload)
	if err != nil {
		s.observe(outcomeUpstream, start)
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, apiErr.Reason())
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order could not be submitted")
	}

	if err := s.clearSessionState(ctx, sessionID); err != nil {
		// The order exists upstream; report the cleanup failure but keep the
		// confirmation.
		if s.logg != nil {
			s.logg.Error(ctx, "checkout.post-order cleanup failed", err)
		}
	}

	s.observe(outcomeSuccess, start)
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_id", confirmation.ID), "checkout.order placed")
	}

	return &Receipt{
		OrderID:     confirmation.ID,
		Status:      confirmation.Status,
		TotalAmount: payload.TotalAmount,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

func buildPayload(snap cart.Snapshot, notes, paymentMethod string) backend.OrderPayload {
	items := make([]backend.OrderItem, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		items = append(items, backend.OrderItem{
			Product:   line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal(),
		})
	}
	return backend.OrderPayload{
		Customer:        snap.Customer.CustomerID,
		Items:           items,
		TotalAmount:     snap.Totals.GrandTotal,
		Status:          orderStatusPending,
		Notes:           notes,
		PaymentMethod:   paymentMethod,
		DeliveryAddress: snap.Customer.DeliveryAddress,
	}
}

// clearSessionState drops the ledger blob (lines, coupons, and the customer
// selection travel together) and the in-flight marker. A partial failure still
// reports every leg.
func (s *service) clearSessionState(ctx context.Context, sessionID string) error {
	return multierr.Combine(
		s.store.Clear(ctx, sessionID),
		s.locks.ReleaseCheckoutLock(ctx, sessionID),
	)
}

func (s *service) observe(outcome string, start time.Time) {
	s.metrics.ObserveCheckout(outcome, time.Since(start))
}
