package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RequestIDInjector(t *testing.T) {
	testCases := []struct {
		name     string
		incoming string
	}{
		{name: "generates id when header is missing", incoming: ""},
		{name: "reuses caller id", incoming: "caller-123"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.GetReqID(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(middleware.RequestIDHeader, tc.incoming)
			}
			rr := httptest.NewRecorder()

			// when
			RequestIDInjector(next).ServeHTTP(rr, req)

			// then
			require.NotEmpty(t, seen)
			if tc.incoming != "" {
				assert.Equal(t, tc.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err, "generated id should be a UUID")
			}
			assert.Equal(t, seen, rr.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func Test_StructuredLogger(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	})
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)

	// when
	StructuredLogger(log)(next).ServeHTTP(httptest.NewRecorder(), req)

	// then
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Request completed", record["msg"])
	assert.Equal(t, http.MethodPost, record["method"])
	assert.Equal(t, "/api/products", record["path"])
	assert.EqualValues(t, http.StatusTeapot, record["status"])
	assert.EqualValues(t, 2, record["bytes_written"])
}

func Test_Recoverer(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rr := httptest.NewRecorder()

	// when
	Recoverer(log)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	// then
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, buf.String(), "Panic recovered")
	assert.Contains(t, buf.String(), "boom")
}
