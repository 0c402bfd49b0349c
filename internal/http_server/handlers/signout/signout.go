package signout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"location_service/internal/auth"
	resp "location_service/internal/lib/api/response"
	sl "location_service/internal/lib/logger"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type SessionInvalidator interface {
	SignOut(ctx context.Context, userID string) error
}

// New godoc
// @Summary      Terminate a user's session
// @Description  Deletes the user's persisted token. The token string remains
// @Description  signature-valid until its embedded expiry but is no longer an
// @Description  active session.
// @Tags         auth
// @Produce      json
// @Param        userid  path  string  true  "User id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response  "No active session"
// @Failure      500  {object}  response.Response
// @Router       /user/signout/{userid} [delete]
func New(
	log *slog.Logger,
	authService SessionInvalidator,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.signout.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID := chi.URLParam(r, "userid")
		if userID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(http.StatusBadRequest, "userid is required"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := authService.SignOut(ctx, userID); err != nil {
			if errors.Is(err, auth.ErrSessionNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error(http.StatusNotFound, "No active session for user"))

				return
			}

			log.Error("failed to sign out user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))

			return
		}

		log.Info("user signed out", slog.String("uid", userID))

		render.JSON(w, r, resp.OK("token successfully deleted"))
	}
}
