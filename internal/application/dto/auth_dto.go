package dto

import "time"

// LoginRequest credenciales enviadas por el formulario de login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse sesión emitida tras un login correcto.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// AuthMessageResponse mensaje de error de login visible al usuario.
type AuthMessageResponse struct {
	Message string `json:"message"`
}
