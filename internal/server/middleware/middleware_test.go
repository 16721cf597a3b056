package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/larkdocs/pkg/logging"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("outer"), mark("inner"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var ctxRequestID string
	var ctxLogger *zerolog.Logger
	h := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxRequestID = logging.RequestID(r.Context())
		ctxLogger = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, ctxRequestID, 12)
	assert.Equal(t, ctxRequestID, w.Header().Get(RequestIDHeader))
	assert.NotSame(t, logging.Default(), ctxLogger)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HTTP request", entry["message"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/v1/auth", entry["path"])
	assert.Equal(t, float64(http.StatusCreated), entry["status"])
	assert.Equal(t, ctxRequestID, entry["request_id"])
	assert.Contains(t, entry, "duration_ms")
}

func TestLoggerKeepsIncomingRequestID(t *testing.T) {
	logger := zerolog.Nop()
	h := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", logging.RequestID(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestLoggerPassesFlushThrough(t *testing.T) {
	logger := zerolog.Nop()
	h := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok)
		_, _ = w.Write([]byte("data: x\n\n"))
		f.Flush()
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))
	assert.True(t, w.Flushed)
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := Recovery(&logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.Contains(t, buf.String(), "Panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestRecoveryRepanicsAbort(t *testing.T) {
	logger := zerolog.Nop()
	h := Recovery(&logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		config     CORSConfig
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"allow all", CORSConfig{AllowAll: true}, http.MethodGet, "https://a.example", "*", http.StatusOK},
		{"listed origin", CORSConfig{AllowedOrigins: []string{"https://a.example"}}, http.MethodGet, "https://a.example", "https://a.example", http.StatusOK},
		{"unlisted origin", CORSConfig{AllowedOrigins: []string{"https://a.example"}}, http.MethodGet, "https://b.example", "", http.StatusOK},
		{"preflight", CORSConfig{AllowedOrigins: []string{"https://a.example"}}, http.MethodOptions, "https://a.example", "https://a.example", http.StatusNoContent},
		{"wildcard subdomain", CORSConfig{AllowedOrigins: []string{"https://*.a.example"}}, http.MethodGet, "https://docs.a.example", "https://docs.a.example", http.StatusOK},
		{"star entry", CORSConfig{AllowedOrigins: []string{"https://a.example", "*"}}, http.MethodGet, "https://b.example", "*", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCORSConfig()
			cfg.AllowAll = tt.config.AllowAll
			cfg.AllowedOrigins = tt.config.AllowedOrigins

			req := httptest.NewRequest(tt.method, "/api/v1/auth", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			CORS(cfg)(ok).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader))
		})
	}
}
