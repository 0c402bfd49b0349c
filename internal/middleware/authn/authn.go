// Package authn provides bearer-token middleware. A token is accepted only
// when its signature verifies AND the exact token string is still persisted
// for its user, so sign-out takes effect immediately.
package authn

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"location_service/internal/auth"
	resp "location_service/internal/lib/api/response"

	"github.com/go-chi/render"
)

type contextKey string

const userIDKey = contextKey("userID")

type TokenVerifier interface {
	VerifyToken(ctx context.Context, rawToken string) (string, error)
}

func New(log *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.authn"

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, r, "authorization token is required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, r, "invalid authorization header")
				return
			}

			userID, err := verifier.VerifyToken(r.Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrInvalidToken):
					unauthorized(w, r, "invalid token")
				case errors.Is(err, auth.ErrSessionNotFound):
					unauthorized(w, r, "session is no longer active")
				default:
					log.Error("token verification failed", slog.String("op", op), slog.Any("err", err))

					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))
				}

				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id stored by the middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, resp.Error(http.StatusUnauthorized, msg))
}
