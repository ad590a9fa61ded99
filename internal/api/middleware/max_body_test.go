package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBodyRecorder struct {
	count int
}

func (f *fakeBodyRecorder) RecordRequestBodyTooLarge(context.Context) {
	f.count++
}

// drainHandler reads the full body and responds 200. maxBodyReader wraps
// every read error including io.EOF, so end-of-body is checked with
// errors.Is the way a JSON decoder tolerates it.
var drainHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, err := io.Copy(io.Discard, r.Body); err != nil && !errors.Is(err, io.EOF) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func TestMaxBody(t *testing.T) {
	t.Run("body over limit returns 413 and records it", func(t *testing.T) {
		recorder := &fakeBodyRecorder{}
		h := MaxBody(8, recorder)(drainHandler)

		req := httptest.NewRequest(http.MethodPost, "http://test/api/v1/matching/investors",
			strings.NewReader(strings.Repeat("x", 64)))

		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, 1, recorder.count)
	})

	t.Run("body under limit passes through", func(t *testing.T) {
		recorder := &fakeBodyRecorder{}
		h := MaxBody(1024, recorder)(drainHandler)

		req := httptest.NewRequest(http.MethodPost, "http://test/api/v1/matching/investors",
			strings.NewReader(`{"raise_amount":100}`))

		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.Equal(t, 0, recorder.count)
	})

	t.Run("GET is not buffered", func(t *testing.T) {
		h := MaxBody(8, nil)(drainHandler)

		req := httptest.NewRequest(http.MethodGet, "http://test/api/v1/matching/all", nil)

		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("zero limit disables the middleware", func(t *testing.T) {
		h := MaxBody(0, nil)(drainHandler)

		req := httptest.NewRequest(http.MethodPost, "http://test/api/v1/matching/investors",
			strings.NewReader(strings.Repeat("x", 1<<16)))

		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
