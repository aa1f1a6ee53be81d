package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	ord "github.com/MikeMC777/perfulandia/internal/order"
)

//
// ---------- STUBS & FAKES ----------
//

// peerState backs the fake user and inventory services.
type peerState struct {
	mu       sync.Mutex
	users    map[int64]bool
	stock    map[int64]int
	payments int
}

func newPeerServer(t *testing.T, st *peerState) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(path.Base(r.URL.Path), 10, 64)
		st.mu.Lock()
		defer st.mu.Unlock()
		if !st.users[id] {
			http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"id":%d}`, id)
	})

	mux.HandleFunc("/inventory/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(path.Base(r.URL.Path), 10, 64)
		st.mu.Lock()
		defer st.mu.Unlock()
		qty, ok := st.stock[id]
		if !ok {
			http.Error(w, `{"error":"stock record not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"id":1,"product_id":%d,"quantity_available":%d,"location":"Santiago"}`, id, qty)
	})

	mux.HandleFunc("/payments", func(w http.ResponseWriter, r *http.Request) {
		st.mu.Lock()
		st.payments++
		st.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (st *peerState) paymentCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.payments
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, productID int64, delta int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, fmt.Sprintf("%d:%d", productID, delta))
	return nil
}

type harness struct {
	router *gin.Engine
	repo   *ord.MemoryRepo
	peers  *peerState
	events *recordingPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repo:   ord.NewMemoryRepo(),
		peers:  &peerState{users: map[int64]bool{1: true}, stock: map[int64]int{1: 10}},
		events: &recordingPublisher{},
	}
	srv := newPeerServer(t, h.peers)
	ext := &ord.Ext{
		HTTP:             &http.Client{Timeout: 2 * time.Second},
		UserBaseURL:      srv.URL,
		InventoryBaseURL: srv.URL,
		PaymentBaseURL:   srv.URL,
	}
	svc := ord.NewService(h.repo, ext, ext, h.events)

	gin.SetMode(gin.TestMode)
	h.router = gin.New()
	registerRoutes(h.router, svc, h.repo)
	return h
}

func (h *harness) do(method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) seedOrder(t *testing.T) *ord.Order {
	t.Helper()
	o := &ord.Order{CustomerRef: "1", ProductRef: "1", Quantity: 3, Total: decimal.NewFromInt(30), Date: ord.NewDate(time.Now())}
	if err := h.repo.Create(context.Background(), o); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return o
}

//
// ---------- TESTS ----------
//

func TestPlaceOrder_HappyPath(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	w := h.do(http.MethodPost, "/orders", `{"customer_ref":"1","product_ref":1,"quantity":3,"total":30.0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got ord.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID == 0 || got.Quantity != 3 || !got.Total.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("order = %+v", got)
	}
	if h.repo.Len() != 1 || h.peers.paymentCount() != 1 {
		t.Fatalf("orders=%d payments=%d", h.repo.Len(), h.peers.paymentCount())
	}
	if len(h.events.events) != 1 || h.events.events[0] != "1:-3" {
		t.Fatalf("events = %v", h.events.events)
	}
}

func TestPlaceOrder_ErrorMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"customer_ref":`, http.StatusBadRequest},
		{"customer not numeric", `{"customer_ref":"ana","product_ref":"1","quantity":1,"total":10}`, http.StatusBadRequest},
		{"zero quantity", `{"customer_ref":"1","product_ref":"1","quantity":0,"total":10}`, http.StatusBadRequest},
		{"customer missing", `{"customer_ref":"2","product_ref":"1","quantity":1,"total":10}`, http.StatusBadRequest},
		{"product missing", `{"customer_ref":"1","product_ref":"9","quantity":1,"total":10}`, http.StatusNotFound},
		{"insufficient stock", `{"customer_ref":"1","product_ref":"1","quantity":11,"total":10}`, http.StatusConflict},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			w := h.do(http.MethodPost, "/orders", tc.body)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
			if h.repo.Len() != 0 || len(h.events.events) != 0 {
				t.Fatal("rejected placement left side effects")
			}
		})
	}
}

func TestPlaceOrder_ConflictCarriesAvailable(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.peers.stock[1] = 2

	w := h.do(http.MethodPost, "/orders", `{"customer_ref":"1","product_ref":"1","quantity":5,"total":50}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body ord.InsufficientStockResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Available != 2 || body.Requested != 5 || body.ProductID != 1 {
		t.Fatalf("body = %+v", body)
	}
}

func TestVerifyStock_PlainText(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	for _, tc := range []struct {
		target string
		code   int
		body   string
	}{
		{"/orders/verify-stock/1/10", http.StatusOK, "Stock suficiente: 10"},
		{"/orders/verify-stock/1/11", http.StatusConflict, "Stock insuficiente. Disponible: 10"},
		{"/orders/verify-stock/9/1", http.StatusNotFound, "Producto no encontrado en inventario"},
		{"/orders/verify-stock/1/x", http.StatusBadRequest, "Cantidad inválida"},
	} {
		w := h.do(http.MethodGet, tc.target, "")
		if w.Code != tc.code || w.Body.String() != tc.body {
			t.Fatalf("%s: status=%d body=%q", tc.target, w.Code, w.Body.String())
		}
	}
}

func TestStockOf(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	w := h.do(http.MethodGet, "/orders/stock/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got ord.StockResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.ProductID != 1 || got.QuantityAvailable != 10 {
		t.Fatalf("body = %+v", got)
	}
	if w := h.do(http.MethodGet, "/orders/stock/9", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing product status=%d", w.Code)
	}
}

// ===== GET /orders/:id =====
func TestGetOrder_OK_And_NotFound(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	o := h.seedOrder(t)

	if w := h.do(http.MethodGet, fmt.Sprintf("/orders/%d", o.ID), ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := h.do(http.MethodGet, "/orders/999", ""); w.Code != http.StatusNotFound {
		t.Fatalf("status=%d (want 404)", w.Code)
	}
	if w := h.do(http.MethodGet, "/orders/abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d (want 400)", w.Code)
	}
}

// ===== GET /orders =====
func TestListOrders(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		h.seedOrder(t)
	}

	w := h.do(http.MethodGet, "/orders?limit=2&offset=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got ord.ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].ID != 2 || got.Limit != 2 || got.Offset != 1 {
		t.Fatalf("list = %+v", got)
	}
}

// ===== PUT / PATCH / DELETE /orders/:id =====
func TestUpdatePatchDeleteOrder(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	o := h.seedOrder(t)
	target := fmt.Sprintf("/orders/%d", o.ID)

	w := h.do(http.MethodPut, target, `{"customer_ref":"1","product_ref":"2","quantity":1,"total":"15.5","date":"2025-01-02"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put status=%d body=%s", w.Code, w.Body.String())
	}
	for _, body := range []string{
		`{"customer_ref":"1","quantity":1}`,
		`{"customer_ref":"1","product_ref":"2","quantity":0,"total":1,"date":"2025-01-02"}`,
		`{"customer_ref":"1","product_ref":"2","quantity":1,"total":-1,"date":"2025-01-02"}`,
	} {
		if w := h.do(http.MethodPut, target, body); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", body, w.Code)
		}
	}

	w = h.do(http.MethodPatch, target, `{"quantity":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ := h.repo.GetByID(context.Background(), o.ID)
	if got.Quantity != 4 || got.ProductRef != "2" || got.Date.String() != "2025-01-02" {
		t.Fatalf("after patch = %+v", got)
	}
	if w := h.do(http.MethodPatch, target, `{"estado":"x"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status=%d", w.Code)
	}
	if w := h.do(http.MethodPatch, "/orders/999", `{"quantity":1}`); w.Code != http.StatusNotFound {
		t.Fatalf("patch missing status=%d", w.Code)
	}

	if w := h.do(http.MethodDelete, target, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w := h.do(http.MethodDelete, target, ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", w.Code)
	}
}

// A PUT without a date must not store the zero date.
func TestUpdateOrder_RequiresDate(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	o := h.seedOrder(t)
	target := fmt.Sprintf("/orders/%d", o.ID)

	w := h.do(http.MethodPut, target, `{"customer_ref":"1","product_ref":"1","quantity":2,"total":20}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ := h.repo.GetByID(context.Background(), o.ID)
	if got.Date.IsZero() || got.Date.String() != o.Date.String() || got.Quantity != 3 {
		t.Fatalf("stored order changed: %+v", got)
	}
}
