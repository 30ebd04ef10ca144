package repository

import (
	"context"

	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	// FindByEmail devuelve (nil, nil) si no hay usuario con ese email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Upsert crea el usuario o actualiza nombre y password si el email ya existe.
	Upsert(ctx context.Context, user *entity.User) error
}
