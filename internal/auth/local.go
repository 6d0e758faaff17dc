package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Local один администратор из конфигурации: bcrypt-хэш пароля и JWT (HS256)
type Local struct {
	email  string
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ Provider = (*Local)(nil)

func NewLocal(email, passwordHash, secret string, ttl time.Duration) *Local {
	return &Local{
		email:  strings.ToLower(strings.TrimSpace(email)),
		hash:   []byte(passwordHash),
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// HashPassword bcrypt-хэш для ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (l *Local) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if strings.ToLower(strings.TrimSpace(email)) != l.email {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(l.hash, []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}
	now := l.now()
	exp := now.Add(l.ttl)
	c := claims{
		Email: l.email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   l.email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(l.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp, Principal: Principal{UID: l.email, Email: l.email}}, nil
}

func (l *Local) Authenticate(ctx context.Context, token string) (*Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return l.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(l.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", ErrUnauthorized)
		}
		return nil, ErrUnauthorized
	}
	return &Principal{UID: c.Subject, Email: c.Email}, nil
}
