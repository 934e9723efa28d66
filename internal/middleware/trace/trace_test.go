package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetbloom/internal/log"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDAssignedAndEchoed(t *testing.T) {
	m := NewMiddleware(nil)

	var seen string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, int64(1), m.TotalRequests())
}

func TestRequestIDKeepsValidIncoming(t *testing.T) {
	m := NewMiddleware(nil)
	incoming := uuid.NewString()

	var seen string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, incoming, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "<script>", seen)
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Format: "json", Output: &buf, Component: log.ComponentApp})

	m := NewMiddleware(func(*http.Request) string { return "198.51.100.4" })
	h := log.Middleware(logger)(m.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.WriteHeader(http.StatusInternalServerError)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/goals", nil))

	out := buf.String()
	assert.Contains(t, out, `"status_code":404`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"client_ip":"198.51.100.4"`)
}
