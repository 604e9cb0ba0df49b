package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"habitud/internal/apperr"
	"habitud/internal/model"
	"habitud/internal/repository"
	"habitud/internal/util"
)

const defaultReminderTime = "08:00"

type AuthService struct {
	users     UserStore
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(users UserStore, jwtSecret string, jwtTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

// Register creates a new user and returns it with a fresh token. Both the
// email and the display name must be unused.
func (s *AuthService) Register(ctx context.Context, name, email, password string, canViewFuture bool) (*model.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", apperr.Invalid("nombre, email y contraseña son obligatorios")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", apperr.Conflict("el email ya está registrado")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}

	if _, err := s.users.FindByName(ctx, name); err == nil {
		return nil, "", apperr.Conflict("el nombre de usuario ya está en uso")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		CanViewFuture: canViewFuture,
		ReminderTime:  defaultReminderTime,
		Timezone:      "America/Santo_Domingo",
	}

	if err := s.users.Create(ctx, u); err != nil {
		// Concurrent register with the same email or name.
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, "", apperr.Conflict("el email o nombre ya está registrado")
		}
		return nil, "", err
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Login checks credentials and returns the user with a token. Unknown email
// and wrong password share one message on purpose.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	badCredentials := apperr.Unauthorized("email o contraseña incorrectos")

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", badCredentials
		}
		return nil, "", err
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return nil, "", badCredentials
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}
