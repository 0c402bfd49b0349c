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
	"github.com/go-playground/validator/v10"
)

// UpdateRequest treats an absent password as "no change"; the stored hash is
// only replaced when a new password is supplied.
type UpdateRequest struct {
	Email string `json:"email" validate:"required,email"`
	Pass  string `json:"password" validate:"omitempty,min=8"`
	Phone string `json:"phone" validate:"required"`
	Name  string `json:"name" validate:"required"`
}

type UpdateResponse struct {
	resp.Response
	Data Dto `json:"data"`
}

// NewUpdate godoc
// @Summary      Update user details by id
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        id    path  string         true  "User id"
// @Param        user  body  UpdateRequest  true  "Fields to store"
// @Success      200  {object}  UpdateResponse
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /user/{id} [put]
func NewUpdate(
	log *slog.Logger,
	validate *validator.Validate,
	service UserService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewUpdate"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		var req UpdateRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(http.StatusBadRequest, "failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Info("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		updated, err := service.Update(ctx, id, req.Email, req.Pass, req.Phone, req.Name)
		if err != nil {
			switch {
			case errors.Is(err, users.ErrNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error(http.StatusNotFound, "User not found"))

				return
			case errors.Is(err, users.ErrEmailTaken):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, resp.Error(http.StatusConflict, "email already registered"))

				return
			}

			log.Error("failed to update user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))

			return
		}

		log.Info("user updated", slog.String("uid", id))

		render.JSON(w, r, UpdateResponse{
			Response: resp.OK("User successfully updated"),
			Data:     toDto(updated),
		})
	}
}
