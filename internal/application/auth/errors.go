package auth

import "fmt"

// Tipos de fallo de autenticación.
const (
	// CredentialsSignin credenciales inválidas (usuario inexistente, password incorrecto o formato inválido).
	CredentialsSignin = "CredentialsSignin"
	// Configuration la sesión no pudo emitirse (secret ausente, firma fallida).
	Configuration = "Configuration"
)

// AuthError fallo propio del proceso de autenticación. Type indica el subtipo.
type AuthError struct {
	Type string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Type, e.Err)
	}
	return "auth: " + e.Type
}

func (e *AuthError) Unwrap() error { return e.Err }
