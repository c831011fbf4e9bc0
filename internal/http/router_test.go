package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/arquivos/internal/config"
	"github.com/gestaozabele/arquivos/internal/storage"
)

type unreachableStore struct {
	*storage.Memory
}

func (unreachableStore) Ping(ctx context.Context) error {
	return errors.New("dial tcp: recusado")
}

func testConfig() *config.Config {
	return &config.Config{
		Port:          8080,
		RateLimit:     config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		MaxUploadSize: 1 << 20,
	}
}

func TestHealth(t *testing.T) {
	r := NewRouter(testConfig(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		store  storage.Client
		status int
	}{
		{"sem armazenamento", nil, http.StatusServiceUnavailable},
		{"noop", storage.Noop{}, http.StatusServiceUnavailable},
		{"indisponível", unreachableStore{storage.NewMemory()}, http.StatusServiceUnavailable},
		{"memória", storage.NewMemory(), http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRouter(testConfig(), tc.store)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tc.status, rec.Code)
			if tc.status != http.StatusOK {
				var body ErrorBody
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tc.status, body.Status)
			}
		})
	}
}

func TestBlobRoutesMounted(t *testing.T) {
	store := storage.NewMemory()
	r := NewRouter(testConfig(), store)

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", "a.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("olá"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/blob-management/upload/a.txt", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blob-management/download/a.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "olá", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blob-management/download/b.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAllowedExtensionsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedExtensions = []string{".png"}
	r := NewRouter(cfg, storage.NewMemory())

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", "a.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("a"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/blob-management/upload/a.txt", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlobRoutesRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	r := NewRouter(cfg, storage.NewMemory())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blob-management/download/a.txt", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blob-management/download/a.txt", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// health fica fora do limite
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
