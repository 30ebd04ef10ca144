package entity

// User representa un usuario que puede iniciar sesión en el dashboard.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
}
