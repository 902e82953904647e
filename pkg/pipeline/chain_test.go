package pipeline

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(name string, calls *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*calls = append(*calls, name)
			next.ServeHTTP(w, r)
		})
	}
}

func shortCircuit(name string, status int, calls *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*calls = append(*calls, name)
			w.WriteHeader(status)
		})
	}
}

func TestChainOrder(t *testing.T) {
	var calls []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "action")
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	Chain(h, tag("A", &calls), tag("B", &calls), tag("C", &calls)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"A", "B", "C", "action"}, calls)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChainShortCircuitStopsPipeline(t *testing.T) {
	var calls []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "action")
	})

	rec := httptest.NewRecorder()
	Chain(h,
		shortCircuit("A", http.StatusForbidden, &calls),
		tag("B", &calls),
		tag("C", &calls),
	).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"A"}, calls, "B, C and the action must never run")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestChainNoMiddleware(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	Chain(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
