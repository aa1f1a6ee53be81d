package user

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserRequest payload of creation.
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	Name     string `json:"name"     example:"Camila Rojas"`
	Email    string `json:"email"    example:"camila@perfulandia.cl"`
	Password string `json:"password" example:"s3cret!"`
}

// UpdateUserRequest payload of partial update. Empty fields are left as they
// are.
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ListResponse represents the paginated response of users.
// swagger:model
type ListResponse struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Items  []User `json:"items"`
}
