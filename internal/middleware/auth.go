package middleware

import (
	"net/http"
	"strings"

	"github.com/templui/goalvoice/internal/ctxkeys"
	"github.com/templui/goalvoice/internal/model"
	"github.com/templui/goalvoice/internal/response"
	"github.com/templui/goalvoice/internal/service"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	VerifyJWT(token string) (*service.Claims, error)
}

// AuthMiddleware adds the user to the context when the request carries a
// valid bearer token. Requests without one pass through unauthenticated.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyJWT(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user := &model.User{ID: claims.UserID, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth rejects requests without an authenticated user.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			message := "No token provided"
			if _, ok := bearerToken(r); ok {
				message = "Invalid or expired token"
			}
			response.Error(w, http.StatusUnauthorized, message)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
