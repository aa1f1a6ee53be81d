// Package user manages customer accounts. The order service only ever asks
// whether a user id exists; everything else here backs the user CRUD API.
package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var ErrInvalidArgument = errors.New("invalid argument")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]User, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateUserRequest) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("%w: email %q", ErrInvalidArgument, in.Email)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies the non-empty fields of in and returns the stored user.
func (s *Service) Update(ctx context.Context, id int64, in UpdateUserRequest) (*User, error) {
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: email %q", ErrInvalidArgument, email)
		}
	}
	u := &User{
		ID:    id,
		Name:  strings.TrimSpace(in.Name), // empty => unchanged
		Email: email,                      // empty => unchanged
	}
	updatePassword := in.Password != ""
	if updatePassword {
		h, err := HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = h
	}
	if err := s.repo.Update(ctx, u, updatePassword); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Patch applies a typed patch document to the stored user.
func (s *Service) Patch(ctx context.Context, id int64, body []byte) (*User, error) {
	p, err := ParsePatch(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(u)
	if err := s.repo.Update(ctx, u, p.ChangesPassword()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
