package product

import (
	"context"
	"strings"
	"time"

	"github.com/MikeMC777/perfulandia/internal/memstore"
)

type MemoryRepo struct {
	t *memstore.Table[Product]
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{t: memstore.New[Product]()}
}

func (m *MemoryRepo) Create(_ context.Context, p *Product) error {
	now := time.Now().UTC()
	in := *p
	in.CreatedAt, in.UpdatedAt = now, now
	stored := m.t.Insert(func(id int64) Product {
		in.ID = id
		return in
	})
	*p = stored
	return nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id int64) (*Product, error) {
	p, ok := m.t.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// List matches the Postgres ordering: newest first, then by search term.
func (m *MemoryRepo) List(_ context.Context, q Query) ([]Product, error) {
	q = q.normalize()
	all := m.t.List(0, 0)
	matched := make([]Product, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		p := all[i]
		if q.Q == "" || containsFold(p.Name, q.Q) || containsFold(p.Description, q.Q) {
			matched = append(matched, p)
		}
	}
	if q.Offset >= len(matched) {
		return []Product{}, nil
	}
	matched = matched[q.Offset:]
	if q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (m *MemoryRepo) Update(_ context.Context, p *Product, updatePrice bool) error {
	_, ok, _ := m.t.Update(p.ID, func(cur *Product) error {
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
	})
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	return m.t.Delete(id), nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
