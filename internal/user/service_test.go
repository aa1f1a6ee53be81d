package user

import (
	"context"
	"errors"
	"testing"
)

func TestService_CreateHashesPassword(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	u, err := svc.Create(context.Background(), CreateUserRequest{Name: " Camila ", Email: "camila@perfulandia.cl", Password: "s3cret!"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID != 1 || u.Name != "Camila" {
		t.Fatalf("user = %+v", u)
	}
	if u.PasswordHash == "s3cret!" || !CheckPassword(u.PasswordHash, "s3cret!") {
		t.Fatal("password not hashed with bcrypt")
	}
	if CheckPassword(u.PasswordHash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestService_CreateRejects(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateUserRequest{Name: "A", Email: "a@b.cl"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("missing password err=%v", err)
	}
	if _, err := svc.Create(ctx, CreateUserRequest{Name: "A", Email: "not-an-email", Password: "x"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("bad email err=%v", err)
	}
	if _, err := svc.Create(ctx, CreateUserRequest{Name: "A", Email: "a@b.cl", Password: "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateUserRequest{Name: "B", Email: "A@B.cl", Password: "y"}); !errors.Is(err, ErrAlreadyExist) {
		t.Fatalf("duplicate email err=%v", err)
	}
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	u, _ := svc.Create(ctx, CreateUserRequest{Name: "A", Email: "a@b.cl", Password: "old"})

	got, err := svc.Update(ctx, u.ID, UpdateUserRequest{Password: "new"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "A" || got.Email != "a@b.cl" || !CheckPassword(got.PasswordHash, "new") {
		t.Fatalf("partial update broke fields: %+v", got)
	}

	if _, err := svc.Update(ctx, 99, UpdateUserRequest{Name: "Z"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing err=%v", err)
	}
	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err=%v", err)
	}
}

func TestService_Patch(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	u, _ := svc.Create(ctx, CreateUserRequest{Name: "Ana", Email: "ana@perfulandia.cl", Password: "old"})
	_, _ = svc.Create(ctx, CreateUserRequest{Name: "Bea", Email: "bea@perfulandia.cl", Password: "pw"})

	got, err := svc.Patch(ctx, u.ID, []byte(`{"name":"Ana María"}`))
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if got.Name != "Ana María" || got.Email != "ana@perfulandia.cl" || !CheckPassword(got.PasswordHash, "old") {
		t.Fatalf("patch changed more than the name: %+v", got)
	}

	got, err = svc.Patch(ctx, u.ID, []byte(`{"password":"new"}`))
	if err != nil || !CheckPassword(got.PasswordHash, "new") {
		t.Fatalf("password patch err=%v", err)
	}

	for body, want := range map[string]error{
		`{"email":"bea@perfulandia.cl"}`: ErrAlreadyExist,
		`{"email":"nope"}`:               ErrInvalidArgument,
		`{"id":4}`:                       ErrInvalidArgument,
		`{"rol":"admin"}`:                ErrInvalidArgument,
	} {
		if _, err := svc.Patch(ctx, u.ID, []byte(body)); !errors.Is(err, want) {
			t.Fatalf("%s: err=%v want %v", body, err, want)
		}
	}
	if _, err := svc.Patch(ctx, 99, []byte(`{"name":"x"}`)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err=%v", err)
	}
}
