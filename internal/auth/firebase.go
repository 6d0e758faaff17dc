package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// Firebase вход через Firebase Authentication, как в исходной админке.
// Токены: Firebase ID tokens, проверяются Admin SDK.
type Firebase struct {
	client   *fbauth.Client
	apiKey   string
	endpoint string
	http     *http.Client
}

var _ Provider = (*Firebase)(nil)

func NewFirebase(client *fbauth.Client, apiKey string) *Firebase {
	return &Firebase{
		client:   client,
		apiKey:   apiKey,
		endpoint: signInEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type signInResponse struct {
	IDToken   string `json:"idToken"`
	Email     string `json:"email"`
	LocalID   string `json:"localId"`
	ExpiresIn string `json:"expiresIn"`
}

// SignIn обменивает email и пароль на ID token через Identity Toolkit REST API
func (f *Firebase) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if f.apiKey == "" {
		return nil, ErrSignInUnsupported
	}
	body, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint+"?key="+url.QueryEscape(f.apiKey), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firebase sign-in: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusBadRequest {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("firebase sign-in: unexpected status %d", resp.StatusCode)
	}
	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("firebase sign-in: %w", err)
	}
	secs, err := strconv.Atoi(out.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("firebase sign-in: expiresIn %q: %w", out.ExpiresIn, err)
	}
	return &Session{
		Token:     out.IDToken,
		ExpiresAt: time.Now().Add(time.Duration(secs) * time.Second),
		Principal: Principal{UID: out.LocalID, Email: out.Email},
	}, nil
}

func (f *Firebase) Authenticate(ctx context.Context, token string) (*Principal, error) {
	t, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	email, _ := t.Claims["email"].(string)
	return &Principal{UID: t.UID, Email: email}, nil
}
