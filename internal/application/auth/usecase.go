package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

// Mensajes visibles devueltos por Authenticate.
const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgSomethingWentWrong = "Something went wrong."
)

// Session sesión emitida para un usuario autenticado.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      dto.UserResponse
}

// CredentialVerifier verifica credenciales y emite la sesión.
// Los fallos de autenticación se devuelven como *AuthError; cualquier otro error es de infraestructura.
type CredentialVerifier interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
}

// AuthUseCase operación authenticate del formulario de login.
type AuthUseCase struct {
	verifier CredentialVerifier
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(verifier CredentialVerifier, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{verifier: verifier, log: log}
}

// Authenticate delega en el verificador. Un *AuthError se traduce a mensaje
// (CredentialsSignin → "Invalid credentials.", otro tipo → "Something went wrong.") y
// no es error; cualquier otro error se propaga al caller.
func (uc *AuthUseCase) Authenticate(ctx context.Context, in dto.LoginRequest) (*Session, string, error) {
	session, err := uc.verifier.SignIn(ctx, in.Email, in.Password)
	if err == nil {
		uc.log.Info().Str("user_id", session.User.ID).Msg("login correcto")
		return session, "", nil
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return nil, "", err
	}
	uc.log.Warn().Str("type", authErr.Type).Str("email", in.Email).Msg("login rechazado")
	switch authErr.Type {
	case CredentialsSignin:
		return nil, MsgInvalidCredentials, nil
	default:
		return nil, MsgSomethingWentWrong, nil
	}
}
