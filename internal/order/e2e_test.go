package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/perfulandia/internal/inventory"
	"github.com/MikeMC777/perfulandia/internal/order"
	"github.com/MikeMC777/perfulandia/internal/payment"
	"github.com/MikeMC777/perfulandia/internal/queue"
)

// world wires the order orchestration to in-process stand-ins for the other
// services: users and stock are served over HTTP from memory repositories,
// payments land in a payment repository, and stock deltas travel over the
// memory queue to a real inventory consumer.
type world struct {
	svc      *order.Service
	orders   *order.MemoryRepo
	stock    *inventory.MemoryRepo
	payments *payment.MemoryRepo
	queue    *queue.Memory
	consumer *inventory.Consumer
}

func newWorld(t *testing.T, users ...int64) *world {
	t.Helper()
	w := &world{
		orders:   order.NewMemoryRepo(),
		stock:    inventory.NewMemoryRepo(),
		payments: payment.NewMemoryRepo(),
		queue:    queue.NewMemory("pedido-inventario", 16),
	}
	t.Cleanup(func() { _ = w.queue.Close() })

	known := map[int64]bool{}
	for _, id := range users {
		known[id] = true
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/users/", func(rw http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/users/"), 10, 64)
		if !known[id] {
			http.Error(rw, `{"error":"user not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(rw).Encode(map[string]any{"id": id})
	})
	mux.HandleFunc("/inventory/", func(rw http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/inventory/"), 10, 64)
		rec, err := w.stock.GetByProductID(r.Context(), id)
		if err != nil {
			http.Error(rw, `{"error":"stock record not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(rw).Encode(rec)
	})
	mux.HandleFunc("/payments", func(rw http.ResponseWriter, r *http.Request) {
		var req payment.CreatePaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}
		p := payment.Payment{OrderID: req.OrderID, Amount: req.Amount, Method: req.Method, Status: req.Status}
		_ = w.payments.Create(r.Context(), &p)
		rw.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(rw).Encode(p)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ext := &order.Ext{
		HTTP:             srv.Client(),
		UserBaseURL:      srv.URL,
		InventoryBaseURL: srv.URL,
		PaymentBaseURL:   srv.URL,
		UserTimeout:      time.Second,
		StockTimeout:     time.Second,
		PaymentTimeout:   time.Second,
	}
	w.svc = order.NewService(w.orders, ext, ext, inventory.NewPublisher(w.queue, nil))
	w.consumer = inventory.NewConsumer(w.queue, w.stock, w.queue.Name(), nil, nil)
	return w
}

func (w *world) seedStock(t *testing.T, productID int64, qty int) {
	t.Helper()
	if err := w.stock.Create(context.Background(), &inventory.StockRecord{ProductID: productID, QuantityAvailable: qty, Location: "Santiago"}); err != nil {
		t.Fatalf("seed stock: %v", err)
	}
}

// drain applies every queued message and returns their bodies.
func (w *world) drain(t *testing.T) []string {
	t.Helper()
	var bodies []string
	for w.queue.Len() > 0 {
		msg, err := w.queue.Receive(context.Background())
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		bodies = append(bodies, string(msg.Body))
		_ = w.consumer.Handle(context.Background(), msg)
	}
	return bodies
}

func (w *world) quantity(t *testing.T, productID int64) int {
	t.Helper()
	rec, err := w.stock.GetByProductID(context.Background(), productID)
	if err != nil {
		t.Fatalf("stock of %d: %v", productID, err)
	}
	return rec.QuantityAvailable
}

func TestEndToEnd_OrderDecrementsStockAsynchronously(t *testing.T) {
	w := newWorld(t, 1)
	w.seedStock(t, 1, 10)

	o, err := w.svc.PlaceOrder(context.Background(), order.PlaceOrderInput{
		CustomerRef: "1", ProductRef: "1", Quantity: 3, Total: decimal.RequireFromString("30.0"),
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if o.ID == 0 || o.Quantity != 3 || !o.Total.Equal(decimal.RequireFromString("30.0")) {
		t.Fatalf("order = %+v", o)
	}

	// the decrement has not happened yet
	if q := w.quantity(t, 1); q != 10 {
		t.Fatalf("stock before consumption = %d", q)
	}
	if bodies := w.drain(t); len(bodies) != 1 || bodies[0] != "1:-3" {
		t.Fatalf("queue carried %q", bodies)
	}
	if q := w.quantity(t, 1); q != 7 {
		t.Fatalf("stock after consumption = %d, want 7", q)
	}

	pays, _ := w.payments.List(context.Background(), 0, 0)
	if len(pays) != 1 || pays[0].OrderID != o.ID || pays[0].Method != payment.MethodCash || pays[0].Status != payment.StatusPending {
		t.Fatalf("payments = %+v", pays)
	}
}

func TestEndToEnd_InsufficientStockLeavesNoTrace(t *testing.T) {
	w := newWorld(t, 1)
	w.seedStock(t, 1, 2)

	_, err := w.svc.PlaceOrder(context.Background(), order.PlaceOrderInput{
		CustomerRef: "1", ProductRef: "1", Quantity: 5, Total: decimal.NewFromInt(50),
	})
	var ise *order.InsufficientStockError
	if !errors.As(err, &ise) || ise.Available != 2 {
		t.Fatalf("err=%v", err)
	}
	if w.orders.Len() != 0 || w.queue.Len() != 0 {
		t.Fatalf("orders=%d queued=%d", w.orders.Len(), w.queue.Len())
	}
	if pays, _ := w.payments.List(context.Background(), 0, 0); len(pays) != 0 {
		t.Fatalf("payments = %+v", pays)
	}
}

func TestEndToEnd_UnknownCustomer(t *testing.T) {
	w := newWorld(t, 1)
	w.seedStock(t, 1, 10)

	_, err := w.svc.PlaceOrder(context.Background(), order.PlaceOrderInput{
		CustomerRef: "9", ProductRef: "1", Quantity: 1, Total: decimal.NewFromInt(10),
	})
	if !errors.Is(err, order.ErrCustomerNotFound) {
		t.Fatalf("err=%v", err)
	}
	if w.orders.Len() != 0 || w.queue.Len() != 0 {
		t.Fatal("side effects for an unknown customer")
	}
}

// Two placements of 4 against a stock of 5 both pass the check because the
// stock view only changes once the events are consumed. The record ends
// below zero.
func TestEndToEnd_ConcurrentOversell(t *testing.T) {
	w := newWorld(t, 1)
	w.seedStock(t, 1, 5)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.svc.PlaceOrder(context.Background(), order.PlaceOrderInput{
				CustomerRef: "1", ProductRef: "1", Quantity: 4, Total: decimal.NewFromInt(40),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("place: %v", err)
		}
	}
	if q := w.quantity(t, 1); q != 5 {
		t.Fatalf("stock before consumption = %d", q)
	}
	w.drain(t)
	if q := w.quantity(t, 1); q != -3 {
		t.Fatalf("stock after consumption = %d, want -3", q)
	}
}
