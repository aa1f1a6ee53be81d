package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func seed(t *testing.T, repo *MemoryRepo, productID int64, qty int) *StockRecord {
	t.Helper()
	r := &StockRecord{ProductID: productID, QuantityAvailable: qty, Location: "Bodega central"}
	if err := repo.Create(context.Background(), r); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return r
}

func TestMemoryRepo_CreateAndLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	r := seed(t, repo, 10, 5)
	if r.ID != 1 {
		t.Fatalf("id=%d", r.ID)
	}
	if err := repo.Create(ctx, &StockRecord{ProductID: 10}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate product err=%v", err)
	}

	got, err := repo.GetByProductID(ctx, 10)
	if err != nil || got.QuantityAvailable != 5 {
		t.Fatalf("by product = %+v, %v", got, err)
	}
	if _, err := repo.GetByProductID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing product err=%v", err)
	}
	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id err=%v", err)
	}
}

func TestMemoryRepo_AdjustIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	seed(t, repo, 1, 100)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _, _ = repo.Adjust(ctx, 1, -3) }()
		go func() { defer wg.Done(); _, _ = repo.Adjust(ctx, 1, 1) }()
	}
	wg.Wait()

	got, _ := repo.GetByProductID(ctx, 1)
	if got.QuantityAvailable != 0 {
		t.Fatalf("quantity=%d, want 0", got.QuantityAvailable)
	}
}

func TestMemoryRepo_AdjustCanGoNegative(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo, 1, 2)
	got, err := repo.Adjust(context.Background(), 1, -5)
	if err != nil || got.QuantityAvailable != -3 {
		t.Fatalf("adjust = %+v, %v", got, err)
	}
	if _, err := repo.Adjust(context.Background(), 2, -1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown product err=%v", err)
	}
}

func TestMemoryRepo_Mutate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	a := seed(t, repo, 1, 2)
	seed(t, repo, 2, 2)

	got, err := repo.Mutate(ctx, a.ID, func(r *StockRecord) error {
		r.Location = "Valparaíso"
		r.ID = 777
		return nil
	})
	if err != nil || got.ID != a.ID || got.Location != "Valparaíso" {
		t.Fatalf("mutate = %+v, %v", got, err)
	}

	_, err = repo.Mutate(ctx, a.ID, func(r *StockRecord) error { r.ProductID = 2; return nil })
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("product clash err=%v", err)
	}
	if _, err := repo.Mutate(ctx, 99, func(*StockRecord) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err=%v", err)
	}
}
