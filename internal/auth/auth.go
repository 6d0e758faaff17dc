// Package auth проверяет личность администратора. Вход по email и паролю,
// дальше каждый запрос несёт bearer-токен.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnauthorized неверные учётные данные или недействительный токен
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSignInUnsupported провайдер не поддерживает вход по паролю на сервере
	ErrSignInUnsupported = errors.New("password sign-in is not supported by this provider")
)

// Principal аутентифицированный администратор
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Session выданный токен
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Principal Principal `json:"principal"`
}

// Provider внешний поставщик идентичности
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*Principal, error)
}
