package entity

import "time"

// Customer representa un cliente del dashboard. ImageURL apunta a su foto de perfil
// en el blob store y nunca queda vacío una vez creado.
type Customer struct {
	ID        string
	Name      string
	Email     string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
