package inventory

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/metrics"
	"github.com/MikeMC777/perfulandia/internal/queue"
)

// Adjuster is the part of Repository the consumer needs.
type Adjuster interface {
	Adjust(ctx context.Context, productID int64, delta int) (*StockRecord, error)
}

// Consumer drains the inventory queue and applies each delta to the stock
// record. Malformed messages and unknown products are logged and dropped;
// nothing is retried and nothing is deduplicated.
type Consumer struct {
	receiver queue.Receiver
	stock    Adjuster
	queue    string
	logger   *zap.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func NewConsumer(receiver queue.Receiver, stock Adjuster, queueName string, logger *zap.Logger, m *metrics.Metrics) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		receiver: receiver,
		stock:    stock,
		queue:    queueName,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("perfulandia/inventory"),
	}
}

// Run blocks until ctx is cancelled or the queue is closed. Receive errors
// other than those are logged and the loop continues.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("stock_consumer_start", zap.String("queue", c.queue))
	for {
		msg, err := c.receiver.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, queue.ErrClosed) {
				c.logger.Info("stock_consumer_stop", zap.String("queue", c.queue))
				return nil
			}
			c.logger.Error("stock_consumer_receive_failed", zap.Error(err))
			continue
		}
		_ = c.Handle(ctx, msg)
	}
}

// Handle applies one message. The returned error is informational; Run has
// already counted and logged it.
func (c *Consumer) Handle(ctx context.Context, msg queue.Message) (err error) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Headers))
	ctx, span := c.tracer.Start(ctx, "inventory.apply_stock_delta",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingDestinationNameKey.String(c.queue),
			attribute.String("messaging.message.body", string(msg.Body)),
		),
	)
	outcome := "applied"
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		c.metrics.EventConsumed(outcome)
	}()

	ev, err := DecodeStockDelta(msg.Body)
	if err != nil {
		outcome = "malformed"
		c.logger.Warn("stock_delta_dropped", zap.String("reason", outcome), zap.ByteString("body", msg.Body), zap.Error(err))
		return err
	}
	span.SetAttributes(
		attribute.Int64("product.id", ev.ProductID),
		attribute.Int("stock.delta", ev.Delta),
	)

	rec, err := c.stock.Adjust(ctx, ev.ProductID, ev.Delta)
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "unknown_product"
		c.logger.Warn("stock_delta_dropped", zap.String("reason", outcome), zap.Int64("product_id", ev.ProductID), zap.Int("delta", ev.Delta))
		return err
	case err != nil:
		outcome = "error"
		c.logger.Error("stock_delta_failed", zap.Int64("product_id", ev.ProductID), zap.Int("delta", ev.Delta), zap.Error(err))
		return err
	}
	c.logger.Info("stock_delta_applied",
		zap.Int64("product_id", ev.ProductID),
		zap.Int("delta", ev.Delta),
		zap.Int("quantity_available", rec.QuantityAvailable),
	)
	return nil
}
