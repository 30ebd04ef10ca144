package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/internal/domain/repository"
	"github.com/jhoicas/Dashboard-api/pkg/jwt"
)

// MinPasswordLength longitud mínima aceptada antes de consultar el usuario.
const MinPasswordLength = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// CredentialsProvider verifica email/password contra los usuarios guardados (bcrypt) y firma un JWT.
type CredentialsProvider struct {
	users    repository.UserRepository
	jwtCfg   JWTConfig
	validate *validator.Validate
	now      func() time.Time
}

var _ CredentialVerifier = (*CredentialsProvider)(nil)

// NewCredentialsProvider construye el proveedor de credenciales.
func NewCredentialsProvider(users repository.UserRepository, jwtCfg JWTConfig) *CredentialsProvider {
	return &CredentialsProvider{users: users, jwtCfg: jwtCfg, validate: validator.New(), now: time.Now}
}

// SignIn valida el formato de las credenciales, busca el usuario y compara el hash.
// Cualquier discrepancia es CredentialsSignin; un error del repositorio se propaga sin envolver.
func (p *CredentialsProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	in := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := p.validate.Struct(in); err != nil {
		return nil, &AuthError{Type: CredentialsSignin, Err: err}
	}

	user, err := p.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &AuthError{Type: CredentialsSignin}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, &AuthError{Type: CredentialsSignin}
		}
		return nil, &AuthError{Type: Configuration, Err: err}
	}

	token, err := jwt.Generate(p.jwtCfg.Secret, user.ID, user.Email, p.jwtCfg.Issuer, p.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, &AuthError{Type: Configuration, Err: err}
	}
	return &Session{
		Token:     token,
		ExpiresAt: p.now().Add(time.Duration(p.jwtCfg.ExpMinutes) * time.Minute),
		User:      dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}

// HashPassword genera el hash bcrypt usado al sembrar usuarios.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", errors.New("password demasiado corto")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
