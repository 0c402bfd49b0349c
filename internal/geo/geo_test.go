package geo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"location_service/internal/models"
	"location_service/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCache struct {
	entries map[string][]byte
	gets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) GetList(ctx context.Context, key string) ([]byte, error) {
	c.gets++
	data, ok := c.entries[key]
	if !ok {
		return nil, storage.ErrCacheMiss
	}
	c.hits++
	return data, nil
}

func (c *fakeCache) SetList(ctx context.Context, key string, data []byte) error {
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// fakeGeoStorage implements Storage for countries; the other entities are
// backed by the same maps through their typed methods.
type fakeGeoStorage struct {
	countries map[string]models.Country
	states    map[string]models.State
	cities    map[string]models.City
	listCalls int
}

func newFakeGeoStorage() *fakeGeoStorage {
	return &fakeGeoStorage{
		countries: map[string]models.Country{},
		states:    map[string]models.State{},
		cities:    map[string]models.City{},
	}
}

func (f *fakeGeoStorage) SaveCountry(ctx context.Context, c models.Country) error {
	for _, e := range f.countries {
		if e.CountryCode == c.CountryCode {
			return storage.ErrExists
		}
	}
	f.countries[c.ID] = c
	return nil
}

func (f *fakeGeoStorage) Country(ctx context.Context, id string) (models.Country, error) {
	c, ok := f.countries[id]
	if !ok {
		return models.Country{}, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeGeoStorage) Countries(ctx context.Context) ([]models.Country, error) {
	f.listCalls++
	out := make([]models.Country, 0, len(f.countries))
	for _, c := range f.countries {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeGeoStorage) UpdateCountry(ctx context.Context, c models.Country) error {
	if _, ok := f.countries[c.ID]; !ok {
		return storage.ErrNotFound
	}
	f.countries[c.ID] = c
	return nil
}

func (f *fakeGeoStorage) DeleteCountry(ctx context.Context, id string) error {
	if _, ok := f.countries[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.countries, id)
	return nil
}

func (f *fakeGeoStorage) SaveState(ctx context.Context, s models.State) error {
	f.states[s.ID] = s
	return nil
}

func (f *fakeGeoStorage) State(ctx context.Context, id string) (models.State, error) {
	s, ok := f.states[id]
	if !ok {
		return models.State{}, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeGeoStorage) States(ctx context.Context) ([]models.State, error) {
	out := make([]models.State, 0, len(f.states))
	for _, s := range f.states {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeGeoStorage) UpdateState(ctx context.Context, s models.State) error {
	if _, ok := f.states[s.ID]; !ok {
		return storage.ErrNotFound
	}
	f.states[s.ID] = s
	return nil
}

func (f *fakeGeoStorage) DeleteState(ctx context.Context, id string) error {
	if _, ok := f.states[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.states, id)
	return nil
}

func (f *fakeGeoStorage) SaveCity(ctx context.Context, c models.City) error {
	f.cities[c.ID] = c
	return nil
}

func (f *fakeGeoStorage) City(ctx context.Context, id string) (models.City, error) {
	c, ok := f.cities[id]
	if !ok {
		return models.City{}, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeGeoStorage) Cities(ctx context.Context) ([]models.City, error) {
	out := make([]models.City, 0, len(f.cities))
	for _, c := range f.cities {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeGeoStorage) UpdateCity(ctx context.Context, c models.City) error {
	if _, ok := f.cities[c.ID]; !ok {
		return storage.ErrNotFound
	}
	f.cities[c.ID] = c
	return nil
}

func (f *fakeGeoStorage) DeleteCity(ctx context.Context, id string) error {
	if _, ok := f.cities[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.cities, id)
	return nil
}

func TestCreateCountry_AssignsIDAndStores(t *testing.T) {
	store := newFakeGeoStorage()
	s := New(discardLogger(), store, nil)

	c, err := s.CreateCountry(context.Background(), models.Country{
		CountryCode: "IND",
		CountryName: "India",
		Active:      true,
		SortSeq:     1,
	})
	if err != nil {
		t.Fatalf("CreateCountry error: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := s.Country(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Country error: %v", err)
	}
	if got.CountryName != "India" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestCreateCountry_DuplicateCode(t *testing.T) {
	store := newFakeGeoStorage()
	s := New(discardLogger(), store, nil)

	if _, err := s.CreateCountry(context.Background(), models.Country{CountryCode: "IND"}); err != nil {
		t.Fatalf("CreateCountry error: %v", err)
	}

	_, err := s.CreateCountry(context.Background(), models.Country{CountryCode: "IND"})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestCountries_CacheHitSkipsStorage(t *testing.T) {
	store := newFakeGeoStorage()
	cache := newFakeCache()
	s := New(discardLogger(), store, cache)

	if _, err := s.CreateCountry(context.Background(), models.Country{CountryCode: "IND"}); err != nil {
		t.Fatalf("CreateCountry error: %v", err)
	}

	if _, err := s.Countries(context.Background()); err != nil {
		t.Fatalf("first Countries error: %v", err)
	}
	if _, err := s.Countries(context.Background()); err != nil {
		t.Fatalf("second Countries error: %v", err)
	}

	if store.listCalls != 1 {
		t.Fatalf("expected one storage list call, got %d", store.listCalls)
	}
	if cache.hits != 1 {
		t.Fatalf("expected one cache hit, got %d", cache.hits)
	}
}

func TestCountries_MutationInvalidatesCache(t *testing.T) {
	store := newFakeGeoStorage()
	cache := newFakeCache()
	s := New(discardLogger(), store, cache)

	if _, err := s.Countries(context.Background()); err != nil {
		t.Fatalf("Countries error: %v", err)
	}

	if _, err := s.CreateCountry(context.Background(), models.Country{CountryCode: "IND"}); err != nil {
		t.Fatalf("CreateCountry error: %v", err)
	}

	list, err := s.Countries(context.Background())
	if err != nil {
		t.Fatalf("Countries after create error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected fresh list with one country, got %d entries", len(list))
	}
	if store.listCalls != 2 {
		t.Fatalf("expected storage re-read after invalidation, got %d calls", store.listCalls)
	}
}

func TestDeleteState_NotFound(t *testing.T) {
	s := New(discardLogger(), newFakeGeoStorage(), nil)

	err := s.DeleteState(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCityRoundTrip(t *testing.T) {
	s := New(discardLogger(), newFakeGeoStorage(), newFakeCache())

	c, err := s.CreateCity(context.Background(), models.City{
		CityName:    "Surat",
		StateCode:   "GUJ",
		CountryCode: "IND",
		Active:      true,
		SortSeq:     1,
	})
	if err != nil {
		t.Fatalf("CreateCity error: %v", err)
	}

	c.CityName = "Ahmedabad"
	if _, err := s.UpdateCity(context.Background(), c); err != nil {
		t.Fatalf("UpdateCity error: %v", err)
	}

	got, err := s.City(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("City error: %v", err)
	}
	if got.CityName != "Ahmedabad" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.DeleteCity(context.Background(), c.ID); err != nil {
		t.Fatalf("DeleteCity error: %v", err)
	}
	if _, err := s.City(context.Background(), c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
