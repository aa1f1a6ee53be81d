package user

import (
	"encoding/json"
	"errors"
	"net/mail"
	"strings"

	"github.com/MikeMC777/perfulandia/internal/patch"
)

type SetName string

func (SetName) Field() string   { return "name" }
func (u SetName) Apply(v *User) { v.Name = string(u) }

type SetEmail string

func (SetEmail) Field() string   { return "email" }
func (u SetEmail) Apply(v *User) { v.Email = string(u) }

// SetPasswordHash carries an already hashed password; the plain text never
// outlives decoding.
type SetPasswordHash string

func (SetPasswordHash) Field() string   { return "password" }
func (u SetPasswordHash) Apply(v *User) { v.PasswordHash = string(u) }

func nonBlank(raw json.RawMessage) (string, error) {
	s, err := patch.String(raw)
	s = strings.TrimSpace(s)
	if err == nil && s == "" {
		err = errors.New("must not be blank")
	}
	return s, err
}

var patchSchema = patch.Schema[User]{
	"id":         nil,
	"created_at": nil,
	"name": func(raw json.RawMessage) (patch.Update[User], error) {
		s, err := nonBlank(raw)
		return SetName(s), err
	},
	"email": func(raw json.RawMessage) (patch.Update[User], error) {
		s, err := nonBlank(raw)
		if err != nil {
			return nil, err
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return nil, errors.New("not an email address")
		}
		return SetEmail(s), nil
	},
	"password": func(raw json.RawMessage) (patch.Update[User], error) {
		s, err := patch.String(raw)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, errors.New("must not be empty")
		}
		h, err := HashPassword(s)
		return SetPasswordHash(h), err
	},
}

// Patch is a validated set of field updates for a user.
type Patch []patch.Update[User]

func ParsePatch(body []byte) (Patch, error) {
	ups, err := patch.Decode(body, patchSchema)
	return Patch(ups), err
}

func (p Patch) Apply(u *User) { patch.Apply(u, p) }

// ChangesPassword reports whether applying p sets a new password hash.
func (p Patch) ChangesPassword() bool {
	for _, u := range p {
		if _, ok := u.(SetPasswordHash); ok {
			return true
		}
	}
	return false
}
