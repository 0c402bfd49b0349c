package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"location_service/internal/auth"
	resp "location_service/internal/lib/api/response"
	sl "location_service/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email string `json:"email" validate:"required,email"`
	Pass  string `json:"password" validate:"required"`
}

type Response struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// New godoc
// @Summary      Authenticate a user and return a bearer token
// @Description  Verifies the email/password pair and returns the user's access token.
// @Description  Repeat logins return the same token until the user signs out.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  Request  true  "Login credentials"
// @Success      200  {object}  Response
// @Failure      400  {object}  response.Response  "Malformed body or validation failure"
// @Failure      401  {object}  response.Response  "Invalid credentials"
// @Failure      500  {object}  response.Response
// @Router       /user/login [post]
func New(
	log *slog.Logger,
	validate *validator.Validate,
	authService Authenticator,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

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

		accessToken, err := authService.Login(ctx, req.Email, req.Pass)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error(http.StatusUnauthorized, "Invalid credentials"))

				return
			}

			log.Error("failed to login user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))

			return
		}

		log.Info("user logged in")

		render.JSON(w, r, Response{
			Status:      http.StatusOK,
			Message:     "Login successful",
			AccessToken: accessToken,
		})
	}
}
