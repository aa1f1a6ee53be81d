package order

import (
	"context"

	"github.com/MikeMC777/perfulandia/internal/memstore"
)

type MemoryRepo struct {
	t *memstore.Table[Order]
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{t: memstore.New[Order]()}
}

func (m *MemoryRepo) Create(_ context.Context, o *Order) error {
	in := *o
	stored := m.t.Insert(func(id int64) Order {
		in.ID = id
		return in
	})
	o.ID = stored.ID
	return nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id int64) (*Order, error) {
	o, ok := m.t.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (m *MemoryRepo) List(_ context.Context, limit, offset int) ([]Order, error) {
	return m.t.List(limit, offset), nil
}

func (m *MemoryRepo) Update(_ context.Context, o *Order) error {
	in := *o
	if _, ok, _ := m.t.Update(o.ID, func(cur *Order) error {
		*cur = in
		return nil
	}); !ok {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	return m.t.Delete(id), nil
}

// Len is the number of stored orders.
func (m *MemoryRepo) Len() int { return m.t.Len() }
