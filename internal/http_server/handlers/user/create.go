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

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type CreateRequest struct {
	Email string `json:"email" validate:"required,email"`
	Pass  string `json:"password" validate:"required,min=8"`
	Phone string `json:"phone" validate:"required"`
	Name  string `json:"name" validate:"required"`
}

type CreateResponse struct {
	resp.Response
	Data Dto `json:"data"`
}

// NewCreate godoc
// @Summary      Create a new user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        user  body  CreateRequest  true  "User to create"
// @Success      201  {object}  CreateResponse
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response  "Email already registered"
// @Router       /user [post]
func NewCreate(
	log *slog.Logger,
	validate *validator.Validate,
	service UserService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewCreate"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req CreateRequest

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

		created, err := service.Signup(ctx, req.Email, req.Pass, req.Phone, req.Name)
		if err != nil {
			if errors.Is(err, users.ErrEmailTaken) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, resp.Error(http.StatusConflict, "email already registered"))

				return
			}

			log.Error("failed to create user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))

			return
		}

		log.Info("user created", slog.String("uid", created.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, CreateResponse{
			Response: resp.Created("User successfully created"),
			Data:     toDto(created),
		})
	}
}
