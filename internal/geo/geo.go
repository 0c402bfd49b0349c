// Package geo implements CRUD over the Country/State/City reference
// entities. List reads go through a cache; every mutation invalidates the
// affected list key. The cache is best-effort: a broken cache degrades to
// database reads, never to errors.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sl "location_service/internal/lib/logger"
	"location_service/internal/models"
	"location_service/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrExists   = errors.New("record already exists")
)

const (
	cacheKeyCountries = "geo:list:countries"
	cacheKeyStates    = "geo:list:states"
	cacheKeyCities    = "geo:list:cities"
)

type Storage interface {
	SaveCountry(ctx context.Context, c models.Country) error
	Country(ctx context.Context, id string) (models.Country, error)
	Countries(ctx context.Context) ([]models.Country, error)
	UpdateCountry(ctx context.Context, c models.Country) error
	DeleteCountry(ctx context.Context, id string) error

	SaveState(ctx context.Context, s models.State) error
	State(ctx context.Context, id string) (models.State, error)
	States(ctx context.Context) ([]models.State, error)
	UpdateState(ctx context.Context, s models.State) error
	DeleteState(ctx context.Context, id string) error

	SaveCity(ctx context.Context, c models.City) error
	City(ctx context.Context, id string) (models.City, error)
	Cities(ctx context.Context) ([]models.City, error)
	UpdateCity(ctx context.Context, c models.City) error
	DeleteCity(ctx context.Context, id string) error
}

// ListCache holds serialized list responses. May be nil when no cache is
// configured.
type ListCache interface {
	GetList(ctx context.Context, key string) ([]byte, error)
	SetList(ctx context.Context, key string, data []byte) error
	Invalidate(ctx context.Context, keys ...string) error
}

type Service struct {
	log     *slog.Logger
	storage Storage
	cache   ListCache
}

func New(log *slog.Logger, storage Storage, cache ListCache) *Service {
	return &Service{
		log:     log,
		storage: storage,
		cache:   cache,
	}
}

func (s *Service) CreateCountry(ctx context.Context, c models.Country) (models.Country, error) {
	const op = "geo.CreateCountry"

	c.ID = uuid.NewString()

	if err := s.storage.SaveCountry(ctx, c); err != nil {
		return models.Country{}, s.writeErr(op, err)
	}

	s.invalidate(ctx, cacheKeyCountries)

	return c, nil
}

func (s *Service) Country(ctx context.Context, id string) (models.Country, error) {
	const op = "geo.Country"

	c, err := s.storage.Country(ctx, id)
	if err != nil {
		return models.Country{}, s.readErr(op, err)
	}

	return c, nil
}

func (s *Service) Countries(ctx context.Context) ([]models.Country, error) {
	const op = "geo.Countries"

	var cached []models.Country
	if s.fromCache(ctx, cacheKeyCountries, &cached) {
		return cached, nil
	}

	list, err := s.storage.Countries(ctx)
	if err != nil {
		s.log.Error("failed to list countries", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.toCache(ctx, cacheKeyCountries, list)

	return list, nil
}

func (s *Service) UpdateCountry(ctx context.Context, c models.Country) (models.Country, error) {
	const op = "geo.UpdateCountry"

	if err := s.storage.UpdateCountry(ctx, c); err != nil {
		return models.Country{}, s.writeErr(op, err)
	}

	s.invalidate(ctx, cacheKeyCountries)

	return c, nil
}

func (s *Service) DeleteCountry(ctx context.Context, id string) error {
	const op = "geo.DeleteCountry"

	if err := s.storage.DeleteCountry(ctx, id); err != nil {
		return s.readErr(op, err)
	}

	s.invalidate(ctx, cacheKeyCountries)

	return nil
}

func (s *Service) CreateState(ctx context.Context, st models.State) (models.State, error) {
	const op = "geo.CreateState"

	st.ID = uuid.NewString()

	if err := s.storage.SaveState(ctx, st); err != nil {
		return models.State{}, s.writeErr(op, err)
	}

	s.invalidate(ctx, cacheKeyStates)

	return st, nil
}

func (s *Service) State(ctx context.Context, id string) (models.State, error) {
	const op = "geo.State"

	st, err := s.storage.State(ctx, id)
	if err != nil {
		return models.State{}, s.readErr(op, err)
	}

	return st, nil
}

func (s *Service) States(ctx context.Context) ([]models.State, error) {
	const op = "geo.States"

	var cached []models.State
	if s.fromCache(ctx, cacheKeyStates, &cached) {
		return cached, nil
	}

	list, err := s.storage.States(ctx)
	if err != nil {
		s.log.Error("failed to list states", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.toCache(ctx, cacheKeyStates, list)

	return list, nil
}

func (s *Service) UpdateState(ctx context.Context, st models.State) (models.State, error) {
	const op = "geo.UpdateState"

	if err := s.storage.UpdateState(ctx, st); err != nil {
		return models.State{}, s.writeErr(op, err)
	}

	s.invalidate(ctx, cacheKeyStates)

	return st, nil
}

func (s *Service) DeleteState(ctx context.Context, id string) error {
	const op = "geo.DeleteState"

	if err := s.storage.DeleteState(ctx, id); err != nil {
		return s.readErr(op, err)
	}

	s.invalidate(ctx, cacheKeyStates)

	return nil
}

func (s *Service) CreateCity(ctx context.Context, c models.City) (models.City, error) {
	const op = "geo.CreateCity"

	c.ID = uuid.NewString()

	if err := s.storage.SaveCity(ctx, c); err != nil {
		return models.City{}, s.writeErr(op, err)
	}

	s.invalidate(ctx, cacheKeyCities)

	return c, nil
}

func (s *Service) City(ctx context.Context, id string) (models.City, error) {
	const op = "geo.City"

	c, err := s.storage.City(ctx, id)
	if err != nil {
		return models.City{}, s.readErr(op, err)
	}

	return c, nil
}

func (s *Service) Cities(ctx context.Context) ([]models.City, error) {
	const op = "geo.Cities"

	var cached []models.City
	if s.fromCache(ctx, cacheKeyCities, &cached) {
		return cached, nil
	}

	list, err := s.storage.Cities(ctx)
	if err != nil {
		s.log.Error("failed to list cities", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.toCache(ctx, cacheKeyCities, list)

	return list, nil
}

func (s *Service) UpdateCity(ctx context.Context, c models.City) (models.City, error) {
	const op = "geo.UpdateCity"

	if err := s.storage.UpdateCity(ctx, c); err != nil {
		return models.City{}, s.writeErr(op, err)
	}

	s.invalidate(ctx, cacheKeyCities)

	return c, nil
}

func (s *Service) DeleteCity(ctx context.Context, id string) error {
	const op = "geo.DeleteCity"

	if err := s.storage.DeleteCity(ctx, id); err != nil {
		return s.readErr(op, err)
	}

	s.invalidate(ctx, cacheKeyCities)

	return nil
}

func (s *Service) fromCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}

	data, err := s.cache.GetList(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrCacheMiss) {
			s.log.Warn("cache read failed", slog.String("key", key), sl.Err(err))
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn("cache entry unreadable", slog.String("key", key), sl.Err(err))
		return false
	}

	return true
}

func (s *Service) toCache(ctx context.Context, key string, list any) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(list)
	if err != nil {
		return
	}

	if err := s.cache.SetList(ctx, key, data); err != nil {
		s.log.Warn("cache write failed", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("cache invalidation failed", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) readErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}

	s.log.Error("storage read failed", slog.String("op", op), sl.Err(err))

	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) writeErr(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrExists):
		return ErrExists
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	}

	s.log.Error("storage write failed", slog.String("op", op), sl.Err(err))

	return fmt.Errorf("%s: %w", op, err)
}
