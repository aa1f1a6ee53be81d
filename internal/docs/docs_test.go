package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDocs(t *testing.T) {
	tests := []struct {
		spec  *swag.Spec
		name  string
		title string
		paths []string
	}{
		{SwaggerInfoOrder, "order", "Perfulandia order service",
			[]string{"/orders", "/orders/{id}", "/orders/stock/{productId}", "/orders/verify-stock/{productId}/{quantity}"}},
		{SwaggerInfoUser, "user", "Perfulandia user service",
			[]string{"/users", "/users/{id}"}},
		{SwaggerInfoProduct, "product", "Perfulandia product service",
			[]string{"/products", "/products/search", "/products/{id}"}},
		{SwaggerInfoInventory, "inventory", "Perfulandia inventory service",
			[]string{"/inventory", "/inventory/{productId}", "/inventory/{productId}/increase", "/inventory/{productId}/decrease", "/inventory/{id}"}},
		{SwaggerInfoPayment, "payment", "Perfulandia payment service",
			[]string{"/payments", "/payments/{id}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.InstanceName(); got != tt.name {
				t.Fatalf("instance name = %q, want %q", got, tt.name)
			}
			doc, err := swag.ReadDoc(tt.name)
			if err != nil {
				t.Fatalf("ReadDoc: %v", err)
			}
			var parsed struct {
				Info struct {
					Title string `json:"title"`
				} `json:"info"`
				Paths       map[string]map[string]any `json:"paths"`
				Definitions map[string]any            `json:"definitions"`
			}
			if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
				t.Fatalf("doc is not JSON: %v", err)
			}
			if parsed.Info.Title != tt.title {
				t.Fatalf("title = %q, want %q", parsed.Info.Title, tt.title)
			}
			if len(parsed.Paths) != len(tt.paths) {
				t.Fatalf("got %d paths, want %d", len(parsed.Paths), len(tt.paths))
			}
			for _, p := range tt.paths {
				if _, ok := parsed.Paths[p]; !ok {
					t.Fatalf("missing path %s", p)
				}
			}
			if _, ok := parsed.Definitions["httpx.HTTPError"]; !ok {
				t.Fatalf("missing httpx.HTTPError definition")
			}
		})
	}
}

func TestSwaggerDocs_ServicesDoNotShareRoutes(t *testing.T) {
	doc, err := swag.ReadDoc("user")
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var parsed struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	if _, ok := parsed.Paths["/orders"]; ok {
		t.Fatalf("user doc must not describe /orders")
	}
}

func TestOrderDoc_CoversCRUD(t *testing.T) {
	doc, err := swag.ReadDoc("order")
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var parsed struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	for _, m := range []string{"get", "put", "patch", "delete"} {
		if _, ok := parsed.Paths["/orders/{id}"][m]; !ok {
			t.Fatalf("/orders/{id} missing %s", m)
		}
	}
}
