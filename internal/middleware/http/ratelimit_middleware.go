package http

import (
	"net/http"

	"github.com/nghiakieran/ute-shop-sub000/internal/limiter"
	"github.com/nghiakieran/ute-shop-sub000/internal/service"
)

// CreateRateLimitMiddleware is a generator function that creates a rate-limiting middleware for a specific policy.
func CreateRateLimitMiddleware(limiterManager *limiter.Manager, policyName string) func(http.Handler) http.Handler {
	// Get the specific limiter for the policy once.
	limiter := limiterManager.Get(policyName)

	// Return the actual middleware.
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The auth middleware runs first, so the user is the identity we
			// throttle on.
			user, ok := service.UserFromContext(r.Context())
			if !ok {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: user not found in context")
				return
			}

			allowed, err := limiter.Allow(r.Context(), user.UserId.Hex())
			if err != nil {
				service.WriteHttpError(w, http.StatusInternalServerError, "Failed to check rate limit.")
				return
			}

			if !allowed {
				service.WriteHttpError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
