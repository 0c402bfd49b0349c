// Package city holds the /city CRUD handlers.
package city

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
	CreateCity(ctx context.Context, c models.City) (models.City, error)
	City(ctx context.Context, id string) (models.City, error)
	Cities(ctx context.Context) ([]models.City, error)
	UpdateCity(ctx context.Context, c models.City) (models.City, error)
	DeleteCity(ctx context.Context, id string) error
}

type Request struct {
	CityName    string `json:"CityName" validate:"required"`
	StateCode   string `json:"StateCode" validate:"required"`
	CountryCode string `json:"CountryCode" validate:"required"`
	Active      *bool  `json:"Active" validate:"required"`
	SortSeq     *int   `json:"SortSeq" validate:"required"`
}

type Response struct {
	resp.Response
	Data models.City `json:"data"`
}

type ListResponse struct {
	resp.Response
	Data []models.City `json:"data"`
}

// NewCreate godoc
// @Summary      Create a new city
// @Tags         city
// @Accept       json
// @Produce      json
// @Param        city  body  Request  true  "City to create"
// @Success      201  {object}  Response
// @Failure      400  {object}  response.Response
// @Router       /city [post]
func NewCreate(log *slog.Logger, validate *validator.Validate, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.city.NewCreate"

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

		created, err := service.CreateCity(ctx, models.City{
			CityName:    req.CityName,
			StateCode:   req.StateCode,
			CountryCode: req.CountryCode,
			Active:      *req.Active,
			SortSeq:     *req.SortSeq,
		})
		if err != nil {
			writeErr(w, r, log, err, "failed to create city")
			return
		}

		log.Info("city created", slog.String("id", created.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.Created("City successfully created"),
			Data:     created,
		})
	}
}

// NewGet godoc
// @Summary      Retrieve a city by id
// @Tags         city
// @Produce      json
// @Param        id  path  string  true  "City id"
// @Success      200  {object}  Response
// @Failure      404  {object}  response.Response
// @Router       /city/{id} [get]
func NewGet(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.city.NewGet"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		found, err := service.City(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, r, log, err, "failed to get city")
			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK("City found successfully"),
			Data:     found,
		})
	}
}

// NewList godoc
// @Summary      Retrieve all cities
// @Tags         city
// @Produce      json
// @Success      200  {object}  ListResponse
// @Router       /city [get]
func NewList(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.city.NewList"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := service.Cities(ctx)
		if err != nil {
			writeErr(w, r, log, err, "failed to list cities")
			return
		}

		render.JSON(w, r, ListResponse{
			Response: resp.OK("Cities retrieved successfully"),
			Data:     list,
		})
	}
}

// NewUpdate godoc
// @Summary      Update a city by id
// @Tags         city
// @Accept       json
// @Produce      json
// @Param        id    path  string   true  "City id"
// @Param        city  body  Request  true  "Fields to store"
// @Success      200  {object}  Response
// @Failure      404  {object}  response.Response
// @Router       /city/{id} [put]
func NewUpdate(log *slog.Logger, validate *validator.Validate, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.city.NewUpdate"

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

		updated, err := service.UpdateCity(ctx, models.City{
			ID:          chi.URLParam(r, "id"),
			CityName:    req.CityName,
			StateCode:   req.StateCode,
			CountryCode: req.CountryCode,
			Active:      *req.Active,
			SortSeq:     *req.SortSeq,
		})
		if err != nil {
			writeErr(w, r, log, err, "failed to update city")
			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK("City successfully updated"),
			Data:     updated,
		})
	}
}

// NewDelete godoc
// @Summary      Delete a city by id
// @Tags         city
// @Produce      json
// @Param        id  path  string  true  "City id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /city/{id} [delete]
func NewDelete(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.city.NewDelete"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := service.DeleteCity(ctx, chi.URLParam(r, "id")); err != nil {
			writeErr(w, r, log, err, "failed to delete city")
			return
		}

		render.JSON(w, r, resp.OK("City successfully deleted"))
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
		render.JSON(w, r, resp.Error(http.StatusNotFound, "City not found"))
	case errors.Is(err, geo.ErrExists):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, resp.Error(http.StatusConflict, "City already exists"))
	default:
		log.Error(logMsg, sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))
	}
}
