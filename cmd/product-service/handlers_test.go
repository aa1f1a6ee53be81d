package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	prod "github.com/MikeMC777/perfulandia/internal/product"
)

//
// ===== STUB REPO EN MEMORIA (implementa product.Repository) =====
//

type stubRepo struct {
	items     map[int64]*prod.Product
	nextID    int64
	lastQuery prod.Query
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[int64]*prod.Product)}
}

func (s *stubRepo) List(ctx context.Context, q prod.Query) ([]prod.Product, error) {
	s.lastQuery = q
	out := make([]prod.Product, 0, len(s.items))
	for _, v := range s.items {
		// filtro mínimo por nombre/descr cuando Q viene con search
		if q.Q != "" && !containsFold(v.Name, q.Q) && !containsFold(v.Description, q.Q) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	// paginación simple
	start := q.Offset
	if start > len(out) {
		return []prod.Product{}, nil
	}
	end := start + q.Limit
	if end > len(out) || q.Limit <= 0 {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *stubRepo) GetByID(ctx context.Context, id int64) (*prod.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, prod.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubRepo) Create(ctx context.Context, p *prod.Product) error {
	if p.ID == 0 {
		s.nextID++
		p.ID = s.nextID
	}
	cp := *p
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.items[p.ID] = &cp
	return nil
}

func (s *stubRepo) Update(ctx context.Context, p *prod.Product, updatePrice bool) error {
	cur, ok := s.items[p.ID]
	if !ok {
		return prod.ErrNotFound
	}
	if p.Name != "" {
		cur.Name = p.Name
	}
	if p.Description != "" {
		cur.Description = p.Description
	}
	if updatePrice {
		cur.Price = p.Price
	}
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

//
// ===== ROUTER de pruebas con los handlers del main =====
//

func newRouter(repo prod.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerRoutes(r, repo)
	return r
}

func send(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

//
// ===== TESTS =====
//

// /products → paginación SOLAMENTE (no debe mandar Q al repo)
func TestListProducts_PaginationOnly_NoSearch(t *testing.T) {
	repo := newStubRepo()
	for i := 1; i <= 3; i++ {
		_ = repo.Create(context.Background(), &prod.Product{
			Name:        fmt.Sprintf("Perfume %d", i),
			Description: "desc",
			Price:       price("10.00"),
		})
	}
	r := newRouter(repo)

	w := send(r, http.MethodGet, "/products?limit=2&offset=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got prod.ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json inválido: %v", err)
	}
	if len(got.Items) != 2 || got.Limit != 2 || got.Offset != 1 {
		t.Fatalf("respuesta inesperada: %+v", got)
	}
	if repo.lastQuery.Q != "" {
		t.Fatalf("listOnlyHandler no debe aplicar búsqueda; Q=%q", repo.lastQuery.Q)
	}
}

// /products/search → exige q (≥2); devuelve filtrado + paginado
func TestSearchProducts_RequiresQAndFilters(t *testing.T) {
	repo := newStubRepo()
	_ = repo.Create(context.Background(), &prod.Product{Name: "Eau de Toilette", Description: "cítrico", Price: price("39990")})
	_ = repo.Create(context.Background(), &prod.Product{Name: "Body Mist", Description: "floral", Price: price("12990")})
	r := newRouter(repo)

	for _, target := range []string{"/products/search?limit=10", "/products/search?q=e", "/products/search?q=%20%20"} {
		if w := send(r, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: esperaba 400, got %d", target, w.Code)
		}
	}

	w := send(r, http.MethodGet, "/products/search?q=FLOR&limit=10&offset=0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got prod.ListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Q != "FLOR" || len(got.Items) != 1 || got.Items[0].Name != "Body Mist" {
		t.Fatalf("resultado inesperado: q=%q items=%+v", got.Q, got.Items)
	}
	if repo.lastQuery.Q == "" {
		t.Fatalf("debió enviarse Q al repo en search")
	}
}

// /products/:id
func TestGetProduct_OK_NotFound_BadID(t *testing.T) {
	repo := newStubRepo()
	p := &prod.Product{Name: "Colonia", Price: price("149.90")}
	_ = repo.Create(context.Background(), p)
	r := newRouter(repo)

	w := send(r, http.MethodGet, fmt.Sprintf("/products/%d", p.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got prod.Product
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if !got.Price.Equal(price("149.9")) {
		t.Fatalf("price=%s", got.Price)
	}
	if w := send(r, http.MethodGet, "/products/404", ""); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d", w.Code)
	}
	if w := send(r, http.MethodGet, "/products/nope", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400, got %d", w.Code)
	}
}

// POST /products
func TestCreateProduct_Valid_And_Invalid(t *testing.T) {
	repo := newStubRepo()
	r := newRouter(repo)

	w := send(r, http.MethodPost, "/products", `{"name":"Starter Kit","description":"Básico","price":"49.90"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var created prod.Product
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == 0 || created.Name != "Starter Kit" {
		t.Fatalf("creado inesperado: %+v", created)
	}

	for _, body := range []string{
		`{"description":"x"}`,            // falta name/price
		`{"name":"Sin precio"}`,          // falta price
		`{"name":"Bad","price":"-1.00"}`, // precio negativo
		`{"name":"   ","price":"1.00"}`,  // nombre en blanco
		`{"name":`,                       // json roto
	} {
		if w := send(r, http.MethodPost, "/products", body); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: esperaba 400, got %d", body, w.Code)
		}
	}
}

// PUT /products/:id (parcial). Si no se envía price, NO se modifica.
func TestUpdateProduct_Partial_WithAndWithoutPrice(t *testing.T) {
	repo := newStubRepo()
	p := &prod.Product{Name: "Mist", Price: price("10.00")}
	_ = repo.Create(context.Background(), p)
	r := newRouter(repo)
	target := fmt.Sprintf("/products/%d", p.ID)

	if w := send(r, http.MethodPut, target, `{"name":"Mist 2"}`); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ := repo.GetByID(context.Background(), p.ID)
	if got.Name != "Mist 2" || !got.Price.Equal(price("10")) {
		t.Fatalf("update sin price no respetado: %+v", got)
	}

	if w := send(r, http.MethodPut, target, `{"price":12.5}`); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ = repo.GetByID(context.Background(), p.ID)
	if !got.Price.Equal(price("12.50")) || got.Name != "Mist 2" {
		t.Fatalf("update con price no aplicado: %+v", got)
	}

	if w := send(r, http.MethodPut, target, `{"price":"-3"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400 por precio negativo, got %d", w.Code)
	}
	if w := send(r, http.MethodPut, "/products/999", `{"name":"x"}`); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d", w.Code)
	}
}

// DELETE /products/:id
func TestDeleteProduct_OK_And_NotFound(t *testing.T) {
	repo := newStubRepo()
	p := &prod.Product{Name: "X", Price: price("1.00")}
	_ = repo.Create(context.Background(), p)
	r := newRouter(repo)

	if w := send(r, http.MethodDelete, fmt.Sprintf("/products/%d", p.ID), ""); w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := send(r, http.MethodDelete, fmt.Sprintf("/products/%d", p.ID), ""); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d", w.Code)
	}
}

// PATCH /products/:id con parche tipado
func TestPatchProduct(t *testing.T) {
	repo := newStubRepo()
	p := &prod.Product{Name: "Mist", Description: "floral", Price: price("10.00")}
	_ = repo.Create(context.Background(), p)
	r := newRouter(repo)
	target := fmt.Sprintf("/products/%d", p.ID)

	w := send(r, http.MethodPatch, target, `{"price":"0"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ := repo.GetByID(context.Background(), p.ID)
	if !got.Price.IsZero() || got.Name != "Mist" || got.Description != "floral" {
		t.Fatalf("patch no aplicado: %+v", got)
	}

	for _, body := range []string{`{"stock":3}`, `{"id":2}`, `{"price":"-1"}`, `{"name":""}`, `{}`} {
		if w := send(r, http.MethodPatch, target, body); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: esperaba 400, got %d", body, w.Code)
		}
	}
	if w := send(r, http.MethodPatch, "/products/999", `{"name":"x"}`); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d", w.Code)
	}
}
