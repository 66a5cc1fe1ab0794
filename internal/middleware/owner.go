package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Strob0t/PropDesk/internal/logger"
)

// DefaultOwnerID is the single-owner default used when no X-Owner-ID header is set.
const DefaultOwnerID = "00000000-0000-0000-0000-000000000000"

const headerOwnerID = "X-Owner-ID"

type ownerCtxKey struct{}

// Owner is middleware that extracts the acting owner from the X-Owner-ID
// header and stores it in the request context. It falls back to
// DefaultOwnerID when the header is absent and rejects non-UUID values.
func Owner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oid := r.Header.Get(headerOwnerID)
		if oid == "" {
			oid = DefaultOwnerID
		} else {
			parsed, err := uuid.Parse(oid)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid X-Owner-ID header"}`))
				return
			}
			oid = parsed.String()
		}
		next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), oid)))
	})
}

// WithOwnerID returns ctx scoped to the given owner. Background jobs and
// tests use it where no HTTP request is involved.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	ctx = context.WithValue(ctx, ownerCtxKey{}, ownerID)
	return logger.WithOwnerID(ctx, ownerID)
}

// OwnerIDFromContext returns the owner ID stored in ctx, or DefaultOwnerID if absent.
func OwnerIDFromContext(ctx context.Context) string {
	if oid, ok := ctx.Value(ownerCtxKey{}).(string); ok {
		return oid
	}
	return DefaultOwnerID
}
