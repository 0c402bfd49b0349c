// Package country holds the /country CRUD handlers.
package country

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
	CreateCountry(ctx context.Context, c models.Country) (models.Country, error)
	Country(ctx context.Context, id string) (models.Country, error)
	Countries(ctx context.Context) ([]models.Country, error)
	UpdateCountry(ctx context.Context, c models.Country) (models.Country, error)
	DeleteCountry(ctx context.Context, id string) error
}

type Request struct {
	CountryCode string `json:"CountryCode" validate:"required"`
	CountryName string `json:"CountryName" validate:"required"`
	Active      *bool  `json:"Active" validate:"required"`
	SortSeq     *int   `json:"SortSeq" validate:"required"`
}

type Response struct {
	resp.Response
	Data models.Country `json:"data"`
}

type ListResponse struct {
	resp.Response
	Data []models.Country `json:"data"`
}

// NewCreate godoc
// @Summary      Create a new country
// @Tags         country
// @Accept       json
// @Produce      json
// @Param        country  body  Request  true  "Country to create"
// @Success      201  {object}  Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response  "Country code already exists"
// @Router       /country [post]
func NewCreate(log *slog.Logger, validate *validator.Validate, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.country.NewCreate"

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

		created, err := service.CreateCountry(ctx, models.Country{
			CountryCode: req.CountryCode,
			CountryName: req.CountryName,
			Active:      *req.Active,
			SortSeq:     *req.SortSeq,
		})
		if err != nil {
			writeErr(w, r, log, err, "failed to create country")
			return
		}

		log.Info("country created", slog.String("id", created.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.Created("Country successfully created"),
			Data:     created,
		})
	}
}

// NewGet godoc
// @Summary      Retrieve a country by id
// @Tags         country
// @Produce      json
// @Param        id  path  string  true  "Country id"
// @Success      200  {object}  Response
// @Failure      404  {object}  response.Response
// @Router       /country/{id} [get]
func NewGet(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.country.NewGet"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		found, err := service.Country(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, r, log, err, "failed to get country")
			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK("Country found successfully"),
			Data:     found,
		})
	}
}

// NewList godoc
// @Summary      Retrieve all countries
// @Tags         country
// @Produce      json
// @Success      200  {object}  ListResponse
// @Router       /country [get]
func NewList(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.country.NewList"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := service.Countries(ctx)
		if err != nil {
			writeErr(w, r, log, err, "failed to list countries")
			return
		}

		render.JSON(w, r, ListResponse{
			Response: resp.OK("Countries retrieved successfully"),
			Data:     list,
		})
	}
}

// NewUpdate godoc
// @Summary      Update a country by id
// @Tags         country
// @Accept       json
// @Produce      json
// @Param        id       path  string   true  "Country id"
// @Param        country  body  Request  true  "Fields to store"
// @Success      200  {object}  Response
// @Failure      404  {object}  response.Response
// @Router       /country/{id} [put]
func NewUpdate(log *slog.Logger, validate *validator.Validate, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.country.NewUpdate"

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

		updated, err := service.UpdateCountry(ctx, models.Country{
			ID:          chi.URLParam(r, "id"),
			CountryCode: req.CountryCode,
			CountryName: req.CountryName,
			Active:      *req.Active,
			SortSeq:     *req.SortSeq,
		})
		if err != nil {
			writeErr(w, r, log, err, "failed to update country")
			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK("Country successfully updated"),
			Data:     updated,
		})
	}
}

// NewDelete godoc
// @Summary      Delete a country by id
// @Tags         country
// @Produce      json
// @Param        id  path  string  true  "Country id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /country/{id} [delete]
func NewDelete(log *slog.Logger, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.country.NewDelete"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := service.DeleteCountry(ctx, chi.URLParam(r, "id")); err != nil {
			writeErr(w, r, log, err, "failed to delete country")
			return
		}

		render.JSON(w, r, resp.OK("Country successfully deleted"))
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
		render.JSON(w, r, resp.Error(http.StatusNotFound, "Country not found"))
	case errors.Is(err, geo.ErrExists):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, resp.Error(http.StatusConflict, "Country code already exists"))
	default:
		log.Error(logMsg, sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Error(http.StatusInternalServerError, "Internal error"))
	}
}
