package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "location_service/internal/lib/api/response"
	sl "location_service/internal/lib/logger"
	"location_service/internal/users"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type GetResponse struct {
	resp.Response
	Data Dto `json:"data"`
}

// NewGet godoc
// @Summary      Retrieve a user by id
// @Tags         user
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  GetResponse
// @Failure      404  {object}  response.Response
// @Router       /user/{id} [get]
func NewGet(log *slog.Logger, service UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewGet"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		found, err := service.User(ctx, id)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error(http.StatusNotFound, "User not found"))

				return
			}

			log.Error("failed to get user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))

			return
		}

		render.JSON(w, r, GetResponse{
			Response: resp.OK("User found successfully"),
			Data:     toDto(found),
		})
	}
}
