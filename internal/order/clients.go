package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/config"
	"github.com/MikeMC777/perfulandia/internal/inventory"
	"github.com/MikeMC777/perfulandia/internal/logging"
	"github.com/MikeMC777/perfulandia/internal/metrics"
	"github.com/MikeMC777/perfulandia/internal/payment"
)

const (
	peerUser      = "user-service"
	peerInventory = "inventory-service"
	peerPayment   = "payment-service"
)

// Validator answers the two read-only questions the orchestration asks
// before it commits to an order.
type Validator interface {
	UserExists(ctx context.Context, id int64) bool
	QueryStock(ctx context.Context, productID int64) (available int, found bool)
}

type PaymentRegistrar interface {
	RegisterPayment(ctx context.Context, p payment.CreatePaymentRequest) error
}

// Ext talks HTTP to the user, inventory and payment services. Every call has
// its own timeout; there is no deadline across calls.
type Ext struct {
	HTTP             *http.Client
	UserBaseURL      string
	InventoryBaseURL string
	PaymentBaseURL   string

	UserTimeout    time.Duration
	StockTimeout   time.Duration
	PaymentTimeout time.Duration

	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

func NewExt(cfg config.Config, m *metrics.Metrics, logger *zap.Logger) *Ext {
	return &Ext{
		HTTP:             &http.Client{},
		UserBaseURL:      cfg.UserSvcBaseURL,
		InventoryBaseURL: cfg.InventorySvcBaseURL,
		PaymentBaseURL:   cfg.PaymentSvcBaseURL,
		UserTimeout:      cfg.UserLookupTimeout,
		StockTimeout:     cfg.StockLookupTimeout,
		PaymentTimeout:   cfg.PaymentCallTimeout,
		Metrics:          m,
		Logger:           logger,
	}
}

// do sends req under its own timeout with the trace context injected. The
// returned cancel must be called once the body has been consumed.
func (e *Ext) do(req *http.Request, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := req.Context(), context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	req = req.WithContext(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	res, err := e.client().Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return res, cancel, nil
}

func (e *Ext) client() *http.Client {
	if e.HTTP == nil {
		return http.DefaultClient
	}
	return e.HTTP
}

func (e *Ext) observe(ctx context.Context, peer, outcome string, start time.Time, err error) {
	e.Metrics.RemoteCall(peer, outcome, time.Since(start))
	if outcome != "ok" {
		logging.FromContext(ctx, e.Logger).Warn("remote_call_failed",
			zap.String("peer", peer),
			zap.String("outcome", outcome),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
	}
}

// UserExists reports whether GET /users/{id} answers 2xx. Transport errors,
// timeouts and non-2xx answers all read as "does not exist".
func (e *Ext) UserExists(ctx context.Context, id int64) bool {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.UserBaseURL+"/users/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		e.observe(ctx, peerUser, "error", start, err)
		return false
	}
	res, cancel, err := e.do(req, e.UserTimeout)
	if err != nil {
		e.observe(ctx, peerUser, "error", start, err)
		return false
	}
	defer cancel()
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		e.observe(ctx, peerUser, "not_found", start, fmt.Errorf("status %s", res.Status))
		return false
	}
	e.observe(ctx, peerUser, "ok", start, nil)
	return true
}

// QueryStock reads quantity_available from GET /inventory/{productId}. As
// with UserExists, any failure is reported as not found.
func (e *Ext) QueryStock(ctx context.Context, productID int64) (int, bool) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.InventoryBaseURL+"/inventory/"+strconv.FormatInt(productID, 10), nil)
	if err != nil {
		e.observe(ctx, peerInventory, "error", start, err)
		return 0, false
	}
	res, cancel, err := e.do(req, e.StockTimeout)
	if err != nil {
		e.observe(ctx, peerInventory, "error", start, err)
		return 0, false
	}
	defer cancel()
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		e.observe(ctx, peerInventory, "not_found", start, fmt.Errorf("status %s", res.Status))
		return 0, false
	}
	var rec inventory.StockRecord
	if err := json.NewDecoder(res.Body).Decode(&rec); err != nil {
		e.observe(ctx, peerInventory, "error", start, err)
		return 0, false
	}
	e.observe(ctx, peerInventory, "ok", start, nil)
	return rec.QuantityAvailable, true
}

// RegisterPayment POSTs one payment record. It is not retried and carries no
// idempotency key.
func (e *Ext) RegisterPayment(ctx context.Context, p payment.CreatePaymentRequest) error {
	start := time.Now()
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.PaymentBaseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, cancel, err := e.do(req, e.PaymentTimeout)
	if err != nil {
		e.observe(ctx, peerPayment, "error", start, err)
		return err
	}
	defer cancel()
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		err := fmt.Errorf("create payment: %s", res.Status)
		e.observe(ctx, peerPayment, "rejected", start, err)
		return err
	}
	e.observe(ctx, peerPayment, "ok", start, nil)
	return nil
}
