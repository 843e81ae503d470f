package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/hva/pkg/domain/types"
	"github.com/secmon-lab/hva/pkg/utils/logging"
)

// OwnerHeader carries the identity of the assessment owner
const OwnerHeader = "X-Owner-ID"

type ctxOwnerKey struct{}

func contextWithOwner(ctx context.Context, owner types.OwnerID) context.Context {
	return context.WithValue(ctx, ctxOwnerKey{}, owner)
}

func ownerFromContext(ctx context.Context) types.OwnerID {
	owner, _ := ctx.Value(ctxOwnerKey{}).(types.OwnerID)
	return owner
}

// ownerMiddleware resolves the request owner from OwnerHeader, falling back
// to defaultOwner. Requests without any owner are rejected.
func ownerMiddleware(defaultOwner types.OwnerID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := types.OwnerID(r.Header.Get(OwnerHeader))
			if owner == "" {
				owner = defaultOwner
			}
			if err := owner.Validate(); err != nil {
				http.Error(w, "Owner identity required", http.StatusUnauthorized)
				return
			}

			ctx := contextWithOwner(r.Context(), owner)
			ctx = logging.With(ctx, logging.From(ctx).With("owner_id", owner))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestLogger binds a logger tagged with the request ID to the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.Default().With("request_id", middleware.GetReqID(ctx))
		next.ServeHTTP(w, r.WithContext(logging.With(ctx, logger)))
	})
}
