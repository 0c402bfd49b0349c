// Package user holds the /user CRUD handlers. Login and sign-out live in
// their own handler packages.
package user

import (
	"context"

	"location_service/internal/models"
)

type UserService interface {
	Signup(ctx context.Context, email, password, phone, name string) (models.User, error)
	User(ctx context.Context, id string) (models.User, error)
	Users(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id, email, password, phone, name string) (models.User, error)
	Delete(ctx context.Context, id string) error
}

// Dto is the wire shape of a user. No password field exists here, hashed or
// otherwise.
type Dto struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func toDto(u models.User) Dto {
	return Dto{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Phone: u.Phone,
	}
}

func toDtos(users []models.User) []Dto {
	out := make([]Dto, 0, len(users))
	for _, u := range users {
		out = append(out, toDto(u))
	}
	return out
}
