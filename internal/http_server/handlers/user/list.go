package user

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "location_service/internal/lib/api/response"
	sl "location_service/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ListResponse struct {
	resp.Response
	Data []Dto `json:"data"`
}

// NewList godoc
// @Summary      Retrieve all users
// @Tags         user
// @Produce      json
// @Success      200  {object}  ListResponse
// @Failure      500  {object}  response.Response
// @Router       /user [get]
func NewList(log *slog.Logger, service UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewList"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := service.Users(ctx)
		if err != nil {
			log.Error("failed to list users", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))

			return
		}

		render.JSON(w, r, ListResponse{
			Response: resp.OK("Users retrieved successfully"),
			Data:     toDtos(list),
		})
	}
}
