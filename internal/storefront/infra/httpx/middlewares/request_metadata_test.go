package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors/constants"
)

func TestAttachRequestMetadata(t *testing.T) {
	var seen context.Context
	h := middleware.RequestID(AttachRequestMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
	})))

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	req.Header.Set(constants.HeaderXIdempotencyKey, "idem-9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, seen)
	requestID, _ := seen.Value(constants.ContextKeyRequestID).(string)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "idem-9", seen.Value(constants.ContextKeyIdempotencyKey))

	md, ok := metadata.FromOutgoingContext(seen)
	require.True(t, ok)
	assert.Equal(t, []string{requestID}, md.Get(constants.HeaderXRequestId))
	assert.Equal(t, []string{"idem-9"}, md.Get(constants.HeaderXIdempotencyKey))
}

func TestAttachRequestMetadata_NoIdempotencyKey(t *testing.T) {
	var seen context.Context
	h := middleware.RequestID(AttachRequestMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/catalog", nil))

	md, _ := metadata.FromOutgoingContext(seen)
	assert.Empty(t, md.Get(constants.HeaderXIdempotencyKey))
}
