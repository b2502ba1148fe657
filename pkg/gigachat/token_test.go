package gigachat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

func TestTokenCacheAcquire(t *testing.T) {
	var calls atomic.Int32
	var rqUIDs []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Basic a2V5", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, DefaultScope, r.PostForm.Get("scope"))

		rqUID := r.Header.Get("RqUID")
		_, err := uuid.Parse(rqUID)
		assert.NoError(t, err)
		rqUIDs = append(rqUIDs, rqUID)

		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.Write([]byte(`{"access_token":"first","expires_at":1700000000000}`))
			return
		}
		w.Write([]byte(`{"access_token":"second","expires_at":1700000000000}`))
	}))
	defer srv.Close()

	creds, err := ResolveCredentials("a2V5", "", "")
	require.NoError(t, err)

	cache := NewTokenCache(creds, srv.URL, "", srv.Client())

	token, err := cache.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", token)
	assert.Equal(t, "first", cache.Last())

	token, err = cache.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", token)
	assert.Equal(t, "second", cache.Last())

	assert.EqualValues(t, 2, calls.Load(), "every acquire goes to the network")
	require.Len(t, rqUIDs, 2)
	assert.NotEqual(t, rqUIDs[0], rqUIDs[1])
}

func TestTokenCacheMissingCredentialsMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cache := NewTokenCache(Credentials{}, srv.URL, "", srv.Client())

	_, err := cache.Acquire(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.Zero(t, calls.Load())
}

func TestTokenCacheFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":6,"message":"credentials doesn't match db data"}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
		{"empty token", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"access_token":""}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			creds, _ := ResolveCredentials("a2V5", "", "")
			cache := NewTokenCache(creds, srv.URL, "", srv.Client())

			_, err := cache.Acquire(context.Background())
			require.ErrorIs(t, err, domain.ErrTokenRequestFailed)
			assert.Empty(t, cache.Last())
		})
	}
}

func TestTokenCacheTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	creds, _ := ResolveCredentials("a2V5", "", "")
	cache := NewTokenCache(creds, srv.URL, "", nil)

	_, err := cache.Acquire(context.Background())
	require.ErrorIs(t, err, domain.ErrTokenRequestFailed)
}
