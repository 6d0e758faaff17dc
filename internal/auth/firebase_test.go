package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFirebaseAgainst(t *testing.T, handler http.HandlerFunc) *Firebase {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	f := NewFirebase(nil, "web-key")
	f.endpoint = ts.URL
	f.http = ts.Client()
	return f
}

func TestFirebase_SignIn(t *testing.T) {
	f := newFirebaseAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "web-key", r.URL.Query().Get("key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@shop.test", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])
		_ = json.NewEncoder(w).Encode(map[string]string{
			"idToken":   "id-token",
			"email":     "admin@shop.test",
			"localId":   "uid-1",
			"expiresIn": "3600",
		})
	})

	before := time.Now()
	s, err := f.SignIn(context.Background(), "admin@shop.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "id-token", s.Token)
	assert.Equal(t, Principal{UID: "uid-1", Email: "admin@shop.test"}, s.Principal)
	assert.WithinDuration(t, before.Add(time.Hour), s.ExpiresAt, 5*time.Second)
}

func TestFirebase_SignInErrors(t *testing.T) {
	ctx := context.Background()

	f := newFirebaseAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"INVALID_PASSWORD"}}`, http.StatusBadRequest)
	})
	_, err := f.SignIn(ctx, "admin@shop.test", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	f = newFirebaseAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err = f.SignIn(ctx, "admin@shop.test", "secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	f = newFirebaseAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"idToken": "t", "expiresIn": "soon"})
	})
	_, err = f.SignIn(ctx, "admin@shop.test", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expiresIn")

	_, err = NewFirebase(nil, "").SignIn(ctx, "admin@shop.test", "secret")
	assert.ErrorIs(t, err, ErrSignInUnsupported)
}
