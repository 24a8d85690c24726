package http

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nghiakieran/ute-shop-sub000/internal/models"
	"github.com/nghiakieran/ute-shop-sub000/internal/service"
	"github.com/nghiakieran/ute-shop-sub000/pkg/jwt"
)

// AuthMiddleware defines the function signature for our authentication middleware.
type AuthMiddleware func(http.Handler) http.Handler

// NewAuthMiddleware creates a middleware that validates the Bearer token and
// places the authenticated user in the request context. The token payload must
// carry user_id (a hex ObjectID); name and role are optional.
func NewAuthMiddleware(jwtManager *jwt.Manager) AuthMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: missing bearer token")
				return
			}

			payload, err := jwtManager.Parse(token)
			if err != nil {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: "+err.Error())
				return
			}

			userIDHex, _ := payload["user_id"].(string)
			userID, err := primitive.ObjectIDFromHex(userIDHex)
			if err != nil {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: invalid user id in token")
				return
			}

			name, _ := payload["name"].(string)
			role, _ := payload["role"].(string)

			ctx := service.WithUser(r.Context(), &models.User{UserId: userID, Name: name}, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a handler behind the admin role claim. It must run after
// the auth middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if service.RoleFromContext(r.Context()) != service.RoleAdmin {
			service.WriteHttpError(w, http.StatusForbidden, "Forbidden: admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
