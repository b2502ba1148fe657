package proxyapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageClientDisabled(t *testing.T) {
	for _, key := range []string{"", "  ", KeyPlaceholder} {
		c := NewImageClient(key, "", "", nil)
		assert.False(t, c.Enabled(), "key %q", key)
		assert.Nil(t, c.Render(context.Background(), "a printer"))
	}
}

func TestRender(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openai.ImageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultImageModel, req.Model)
		assert.Equal(t, "a printer on a desk", req.Prompt)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
	}))
	defer srv.Close()

	c := NewImageClient("sk-test", srv.URL+"/openai/v1/", "", srv.Client())
	require.True(t, c.Enabled())

	assert.Equal(t, png, c.Render(context.Background(), "a printer on a desk"))
}

func TestRenderFailuresReturnNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		}},
		{"empty data", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"created":1,"data":[]}`))
		}},
		{"missing b64", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"created":1,"data":[{"url":"https://example.com/a.png"}]}`))
		}},
		{"broken base64", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"created":1,"data":[{"b64_json":"%%%not-base64"}]}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.handler(w, r)
			}))
			defer srv.Close()

			c := NewImageClient("sk-test", srv.URL, "", srv.Client())

			assert.Nil(t, c.Render(context.Background(), "prompt"))
			assert.EqualValues(t, 1, calls.Load())
		})
	}
}
