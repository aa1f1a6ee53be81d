package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MikeMC777/perfulandia/internal/memstore"
)

// MemoryRepo mirrors the users table, including its unique email.
type MemoryRepo struct {
	t *memstore.Table[User]
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{t: memstore.New[User]()}
}

func emailKey(u User) any { return strings.ToLower(u.Email) }

func (m *MemoryRepo) List(_ context.Context, limit, offset int) ([]User, error) {
	return m.t.List(limit, offset), nil
}

func (m *MemoryRepo) Create(_ context.Context, u *User) error {
	in := *u
	in.CreatedAt = time.Now().UTC()
	stored, err := m.t.InsertUnique(func(id int64) User {
		in.ID = id
		return in
	}, emailKey)
	if errors.Is(err, memstore.ErrDuplicate) {
		return ErrAlreadyExist
	}
	u.ID, u.CreatedAt = stored.ID, stored.CreatedAt
	return err
}

func (m *MemoryRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := m.t.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.t.Find(func(u User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryRepo) Update(_ context.Context, u *User, updatePassword bool) error {
	_, ok, err := m.t.UpdateUnique(u.ID, func(cur *User) error {
		if u.Name != "" {
			cur.Name = u.Name
		}
		if u.Email != "" {
			cur.Email = u.Email
		}
		if updatePassword {
			cur.PasswordHash = u.PasswordHash
		}
		return nil
	}, emailKey)
	if !ok {
		return ErrNotFound
	}
	if errors.Is(err, memstore.ErrDuplicate) {
		return ErrAlreadyExist
	}
	return err
}

func (m *MemoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	return m.t.Delete(id), nil
}
