package requestmeta

import (
	"net/http"

	"github.com/google/uuid"

	"assetgate/pkg/requestcontext"
)

// RequestMetadata assigns every request an ID and picks up the reviewer
// identity, making both available through requestcontext. An incoming
// X-Request-ID is honored so IDs can follow a request across services; the
// assigned ID is echoed back on the response.
// This middleware should be applied early in the chain.
func RequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		if reviewer := r.Header.Get("X-Reviewer-ID"); reviewer != "" {
			ctx = requestcontext.WithReviewerID(ctx, reviewer)
		}

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
