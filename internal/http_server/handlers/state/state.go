// Package state holds the /state CRUD handlers.
package state

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"location_service/internal/geo"
	resp "location_service/internal/lib/api/response"
	sl "location_service/internal/lib/logger"
	"location_service/internal/models"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Service interface {
	CreateState(ctx context.Context, s models.State) (models.State, error)
	State(ctx context.Context, id string) (models.State, error)
	States(ctx context.Context) ([]models.State, error)
	UpdateState(ctx context.Context, s models.State) (models.State, error)
	DeleteState(ctx context.Context, id string) error
}

type Request struct {
	StateCode   string `json:"StateCode" validate:"required"`
	StateName   string `json:"StateName" validate:"required"`
	CountryCode string `json:"CountryCode" validate:"required"`
	Active      *bool  `json:"Active" validate:"required"`
	SortSeq     *int   `json:"SortSeq" validate:"required"`
}

type Response struct {
	resp.Response
	Data models.State `json:"data"`
}

type ListResponse struct {
	resp.Response
	Data []models.State `json:"data"`
}

// NewCreate godoc
// @Summary      Create a new state
// @Tags         state
// @Accept       json
// @Produce      json
// @Param        state  body  Request  true  "State to create"
// @Success      201  {object}  Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response  "State code already exists"
// @Router       /state [post]
func NewCreate(log *slog.Logger, validate *validator.Validate, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.state.NewCreate"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		req, ok := decode(w, r, log, validate)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		created, err := service.CreateState(ctx, models.State{
			StateCode:   req.StateCode,
			StateName:   req.StateName,
			CountryCode: req.CountryCode,
			Active:      *req.Active,
			SortSeq:     *req.SortSeq,
		})
		if err != nil {
			writeErr(w, r, log, err, "failed to create state")
			return
		}

		log.Info("state created", slog.String("id", created.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.Created("State successfully created"),
			Data:     created,
		})
	}
}

// NewGet godoc
// @Summary      Retrieve a state by id
// @Tags         state
// @Produce      json
// @Param        id  path  string  true  "State id"
// @Success      200  {object}  Response
// @Failure      404  {object}  response.Response
// @Router       /state/{id} [get]
func NewGet(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.state.NewGet"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		found, err := service.State(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, r, log, err, "failed to get state")
			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK("State found successfully"),
			Data:     found,
		})
	}
}

// NewList godoc
// @Summary      Retrieve all states
// @Tags         state
// @Produce      json
// @Success      200  {object}  ListResponse
// @Router       /state [get]
func NewList(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.state.NewList"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := service.States(ctx)
		if err != nil {
			writeErr(w, r, log, err, "failed to list states")
			return
		}

		render.JSON(w, r, ListResponse{
			Response: resp.OK("States retrieved successfully"),
			Data:     list,
		})
	}
}

// NewUpdate godoc
// @Summary      Update a state by id
// @Tags         state
// @Accept       json
// @Produce      json
// @Param        id     path  string   true  "State id"
// @Param        state  body  Request  true  "Fields to store"
// @Success      200  {object}  Response
// @Failure      404  {object}  response.Response
// @Router       /state/{id} [put]
func NewUpdate(log *slog.Logger, validate *validator.Validate, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.state.NewUpdate"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		req, ok := decode(w, r, log, validate)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		updated, err := service.UpdateState(ctx, models.State{
			ID:          chi.URLParam(r, "id"),
			StateCode:   req.StateCode,
			StateName:   req.StateName,
			CountryCode: req.CountryCode,
			Active:      *req.Active,
			SortSeq:     *req.SortSeq,
		})
		if err != nil {
			writeErr(w, r, log, err, "failed to update state")
			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK("State successfully updated"),
			Data:     updated,
		})
	}
}

// NewDelete godoc
// @Summary      Delete a state by id
// @Tags         state
// @Produce      json
// @Param        id  path  string  true  "State id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /state/{id} [delete]
func NewDelete(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.state.NewDelete"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := service.DeleteState(ctx, chi.URLParam(r, "id")); err != nil {
			writeErr(w, r, log, err, "failed to delete state")
			return
		}

		render.JSON(w, r, resp.OK("State successfully deleted"))
	}
}

func decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, validate *validator.Validate) (Request, bool) {
	var req Request

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Error(http.StatusBadRequest, "failed to decode request"))

		return Request{}, false
	}

	if err := validate.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)

		log.Info("invalid request", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.ValidationError(validateErr))

		return Request{}, false
	}

	return req, true
}

func writeErr(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, logMsg string) {
	switch {
	case errors.Is(err, geo.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, resp.Error(http.StatusNotFound, "State not found"))
	case errors.Is(err, geo.ErrExists):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, resp.Error(http.StatusConflict, "State code already exists"))
	default:
		log.Error(logMsg, sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))
	}
}
