package payment

import (
	"context"

	"github.com/MikeMC777/perfulandia/internal/memstore"
)

type MemoryRepo struct {
	t *memstore.Table[Payment]
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{t: memstore.New[Payment]()}
}

func (m *MemoryRepo) List(_ context.Context, limit, offset int) ([]Payment, error) {
	return m.t.List(limit, offset), nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id int64) (*Payment, error) {
	p, ok := m.t.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryRepo) Create(_ context.Context, p *Payment) error {
	in := *p
	stored := m.t.Insert(func(id int64) Payment {
		in.ID = id
		return in
	})
	p.ID = stored.ID
	return nil
}

func (m *MemoryRepo) Update(_ context.Context, p *Payment) error {
	in := *p
	if _, ok, _ := m.t.Update(p.ID, func(cur *Payment) error {
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
