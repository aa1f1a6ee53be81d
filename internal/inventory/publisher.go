package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/logging"
	"github.com/MikeMC777/perfulandia/internal/queue"
)

// Publisher puts stock deltas on the inventory queue. Delivery is not
// confirmed: a nil error means the queue accepted the message, not that any
// consumer applied it.
type Publisher struct {
	sender queue.Sender
	logger *zap.Logger
}

func NewPublisher(sender queue.Sender, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{sender: sender, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, productID int64, delta int) error {
	ev := StockDelta{ProductID: productID, Delta: delta}
	if err := p.sender.Send(ctx, queue.Message{Body: ev.Encode()}); err != nil {
		return err
	}
	logging.FromContext(ctx, p.logger).Debug("stock_delta_published", zap.Stringer("event", ev))
	return nil
}
