// Package order places orders: it validates the customer and the stock with
// the owning services, persists the order, then registers a pending payment
// and publishes a stock decrement. Only the steps up to persistence can fail
// a placement.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/logging"
	"github.com/MikeMC777/perfulandia/internal/metrics"
	"github.com/MikeMC777/perfulandia/internal/payment"
)

const (
	useCasePlaceOrder = "order.place"
	spanPrefix        = "UC."

	DefaultPublishTimeout = 2 * time.Second
)

// EventPublisher announces a stock change for a product. Delivery is not
// confirmed.
type EventPublisher interface {
	Publish(ctx context.Context, productID int64, delta int) error
}

type PlaceOrderInput struct {
	CustomerRef string
	ProductRef  string
	Quantity    int
	Total       decimal.Decimal
	// Date defaults to today when zero.
	Date time.Time
}

type Service struct {
	repo      Repository
	validator Validator
	payments  PaymentRegistrar
	events    EventPublisher

	logger         *zap.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	publishTimeout time.Duration
	now            func() time.Time
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer("perfulandia/order") }
}

func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(repo Repository, validator Validator, payments PaymentRegistrar, events EventPublisher, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		validator:      validator,
		payments:       payments,
		events:         events,
		logger:         zap.NewNop(),
		tracer:         otel.Tracer("perfulandia/order"),
		publishTimeout: DefaultPublishTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder runs the placement steps in order and stops at the first
// rejection:
//
//  1. resolve the customer reference
//  2. the customer must exist
//  3. resolve the product reference
//  4. the product must have a stock record
//  5. the stock must cover the quantity
//  6. persist the order
//
// After step 6 the order exists whatever happens next. The pending payment
// and the stock decrement are attempted once each and their failures are
// only logged and counted; there is no compensation. No stock is reserved
// between the check and the decrement, so concurrent placements can all
// pass the check against the same stock.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (_ *Order, err error) {
	logger := logging.FromContext(ctx, s.logger).With(
		zap.String("use_case", useCasePlaceOrder),
		zap.String("customer_ref", in.CustomerRef),
		zap.String("product_ref", in.ProductRef),
		zap.Int("quantity", in.Quantity),
	)
	ctx, span := s.tracer.Start(ctx, spanPrefix+"PlaceOrder", trace.WithAttributes(
		attribute.String("use_case", useCasePlaceOrder),
		attribute.String("order.customer_ref", in.CustomerRef),
		attribute.String("order.product_ref", in.ProductRef),
		attribute.Int("order.quantity", in.Quantity),
	))
	start := time.Now()
	outcome := "placed"
	var placed *Order

	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		} else {
			span.SetAttributes(attribute.Int64("order.id", placed.ID))
			span.SetStatus(codes.Ok, outcome)
		}
		span.End()
		s.metrics.Placement(outcome)

		fields := []zap.Field{zap.String("outcome", outcome), zap.Duration("duration", time.Since(start))}
		switch {
		case err == nil:
			logger.Info("order_placed", fields...)
		case errors.Is(err, ErrOrchestrationFailure):
			logger.Error("order_rejected", append(fields, zap.Error(err))...)
		default:
			logger.Info("order_rejected", append(fields, zap.Error(err))...)
		}
	}()

	customerID, ok := Ref(in.CustomerRef).ID()
	if !ok {
		outcome = "invalid_input"
		return nil, fmt.Errorf("%w: customer_ref %q is not an id", ErrInvalidInput, in.CustomerRef)
	}
	if in.Quantity <= 0 {
		outcome = "invalid_input"
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, in.Quantity)
	}
	if in.Total.IsNegative() {
		outcome = "invalid_input"
		return nil, fmt.Errorf("%w: total must not be negative", ErrInvalidInput)
	}

	if !s.validator.UserExists(ctx, customerID) {
		outcome = "customer_not_found"
		return nil, fmt.Errorf("%w: %d", ErrCustomerNotFound, customerID)
	}

	productID, ok := Ref(in.ProductRef).ID()
	if !ok {
		outcome = "invalid_input"
		return nil, fmt.Errorf("%w: product_ref %q is not an id", ErrInvalidInput, in.ProductRef)
	}

	available, found := s.validator.QueryStock(ctx, productID)
	if !found {
		outcome = "product_not_found"
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	span.SetAttributes(attribute.Int("stock.available", available))
	if available < in.Quantity {
		outcome = "insufficient_stock"
		return nil, &InsufficientStockError{ProductID: productID, Requested: in.Quantity, Available: available}
	}

	day := in.Date
	if day.IsZero() {
		day = s.now()
	}
	o := &Order{
		CustomerRef: in.CustomerRef,
		ProductRef:  in.ProductRef,
		Quantity:    in.Quantity,
		Total:       in.Total,
		Date:        NewDate(day),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		outcome = "persist_failed"
		return nil, fmt.Errorf("%w: %w", ErrOrchestrationFailure, err)
	}
	placed = o
	logger = logger.With(zap.Int64("order_id", o.ID))

	// The order is committed. The client may go away now, but the follow-up
	// calls still run.
	sideCtx := context.WithoutCancel(ctx)

	if err := s.payments.RegisterPayment(sideCtx, payment.CreatePaymentRequest{
		OrderID: o.ID,
		Amount:  o.Total,
		Method:  payment.MethodCash,
		Status:  payment.StatusPending,
	}); err != nil {
		s.metrics.SideEffectFailed("register_payment")
		span.AddEvent("register_payment_failed", trace.WithAttributes(attribute.String("error", err.Error())))
		logger.Warn("register_payment_failed", zap.Error(err))
	}

	pubCtx, cancel := context.WithTimeout(sideCtx, s.publishTimeout)
	defer cancel()
	if err := s.events.Publish(pubCtx, productID, -o.Quantity); err != nil {
		s.metrics.SideEffectFailed("publish_stock_delta")
		span.AddEvent("publish_stock_delta_failed", trace.WithAttributes(attribute.String("error", err.Error())))
		logger.Error("publish_stock_delta_failed", zap.Int64("product_id", productID), zap.Int("delta", -o.Quantity), zap.Error(err))
	}

	return o, nil
}

// VerifyStock reports the available stock when it covers quantity.
func (s *Service) VerifyStock(ctx context.Context, productRef string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, quantity)
	}
	available, productID, err := s.stock(ctx, productRef)
	if err != nil {
		return 0, err
	}
	if available < quantity {
		return available, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: available}
	}
	return available, nil
}

// StockOf returns the product's current stock as seen by the inventory
// service.
func (s *Service) StockOf(ctx context.Context, productRef string) (int, error) {
	available, _, err := s.stock(ctx, productRef)
	return available, err
}

func (s *Service) stock(ctx context.Context, productRef string) (int, int64, error) {
	productID, ok := Ref(productRef).ID()
	if !ok {
		return 0, 0, fmt.Errorf("%w: product %q is not an id", ErrInvalidInput, productRef)
	}
	available, found := s.validator.QueryStock(ctx, productID)
	if !found {
		return 0, productID, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	return available, productID, nil
}
