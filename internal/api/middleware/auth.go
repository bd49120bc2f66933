package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dom/blog-website/internal/api/respond"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"

	AccessTokenCookie = "access_token"
)

// TokenValidator resolves an access token to the user it was issued for.
type TokenValidator interface {
	ValidateAccessToken(token string) (uuid.UUID, bool)
}

// Auth accepts the access token from an "Authorization: Bearer" header or the
// access_token cookie, in that order.
func Auth(validator TokenValidator, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := accessToken(r)
			if !ok {
				log.WithField("path", r.URL.Path).Debug("[middleware.Auth] missing access token")
				respond.Status(w, http.StatusUnauthorized, "Unauthorized request")
				return
			}

			userID, ok := validator.ValidateAccessToken(token)
			if !ok {
				respond.Status(w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != "" {
			return strings.TrimSpace(parts[1]), true
		}
		return "", false
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
