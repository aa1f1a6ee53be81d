package inventory

import (
	"context"
	"errors"

	"github.com/MikeMC777/perfulandia/internal/memstore"
)

// MemoryRepo keeps stock records in process. product_id is unique, like the
// inventory table's constraint.
type MemoryRepo struct {
	t *memstore.Table[StockRecord]
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{t: memstore.New[StockRecord]()}
}

func productKey(r StockRecord) any { return r.ProductID }

func (m *MemoryRepo) List(_ context.Context, limit, offset int) ([]StockRecord, error) {
	return m.t.List(limit, offset), nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id int64) (*StockRecord, error) {
	r, ok := m.t.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryRepo) GetByProductID(_ context.Context, productID int64) (*StockRecord, error) {
	r, ok := m.t.Find(byProduct(productID))
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryRepo) Create(_ context.Context, r *StockRecord) error {
	in := *r
	stored, err := m.t.InsertUnique(func(id int64) StockRecord {
		in.ID = id
		return in
	}, productKey)
	if errors.Is(err, memstore.ErrDuplicate) {
		return ErrAlreadyExists
	}
	r.ID = stored.ID
	return err
}

func (m *MemoryRepo) Mutate(_ context.Context, id int64, fn func(*StockRecord) error) (*StockRecord, error) {
	out, ok, err := m.t.UpdateUnique(id, func(r *StockRecord) error {
		if err := fn(r); err != nil {
			return err
		}
		r.ID = id
		return nil
	}, productKey)
	if !ok {
		return nil, ErrNotFound
	}
	if errors.Is(err, memstore.ErrDuplicate) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MemoryRepo) Adjust(_ context.Context, productID int64, delta int) (*StockRecord, error) {
	out, ok, _ := m.t.UpdateWhere(byProduct(productID), func(r *StockRecord) error {
		r.QuantityAvailable += delta
		return nil
	})
	if !ok {
		return nil, ErrNotFound
	}
	return &out, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	return m.t.Delete(id), nil
}

func byProduct(productID int64) func(StockRecord) bool {
	return func(r StockRecord) bool { return r.ProductID == productID }
}
