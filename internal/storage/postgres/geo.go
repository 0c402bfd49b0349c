package postgres

import (
	"context"
	"errors"
	"fmt"

	"location_service/internal/models"
	"location_service/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *PostgresRepo) SaveCountry(ctx context.Context, c models.Country) error {
	const op = "storage.postgres.SaveCountry"

	query := `
		INSERT INTO countries (id, country_code, country_name, active, sort_seq)
		VALUES ($1, $2, $3, $4, $5);
	`

	_, err := r.pool.Exec(ctx, query, c.ID, c.CountryCode, c.CountryName, c.Active, c.SortSeq)

	return geoWriteErr(op, err)
}

func (r *PostgresRepo) Country(ctx context.Context, id string) (models.Country, error) {
	query := `
		SELECT id, country_code, country_name, active, sort_seq
		FROM countries
		WHERE id = $1;
	`

	var c models.Country

	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.CountryCode, &c.CountryName, &c.Active, &c.SortSeq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Country{}, storage.ErrNotFound
		}

		return models.Country{}, err
	}

	return c, nil
}

func (r *PostgresRepo) Countries(ctx context.Context) ([]models.Country, error) {
	const op = "storage.postgres.Countries"

	query := `
		SELECT id, country_code, country_name, active, sort_seq
		FROM countries
		ORDER BY sort_seq, country_code;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Country

	for rows.Next() {
		var c models.Country

		if err := rows.Scan(&c.ID, &c.CountryCode, &c.CountryName, &c.Active, &c.SortSeq); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return out, nil
}

func (r *PostgresRepo) UpdateCountry(ctx context.Context, c models.Country) error {
	const op = "storage.postgres.UpdateCountry"

	query := `
		UPDATE countries
		SET country_code = $1, country_name = $2, active = $3, sort_seq = $4
		WHERE id = $5;
	`

	tag, err := r.pool.Exec(ctx, query, c.CountryCode, c.CountryName, c.Active, c.SortSeq, c.ID)
	if err != nil {
		return geoWriteErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (r *PostgresRepo) DeleteCountry(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteCountry"

	tag, err := r.pool.Exec(ctx, `DELETE FROM countries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (r *PostgresRepo) SaveState(ctx context.Context, s models.State) error {
	const op = "storage.postgres.SaveState"

	query := `
		INSERT INTO states (id, state_code, state_name, country_code, active, sort_seq)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err := r.pool.Exec(ctx, query, s.ID, s.StateCode, s.StateName, s.CountryCode, s.Active, s.SortSeq)

	return geoWriteErr(op, err)
}

func (r *PostgresRepo) State(ctx context.Context, id string) (models.State, error) {
	query := `
		SELECT id, state_code, state_name, country_code, active, sort_seq
		FROM states
		WHERE id = $1;
	`

	var s models.State

	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.StateCode, &s.StateName, &s.CountryCode, &s.Active, &s.SortSeq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.State{}, storage.ErrNotFound
		}

		return models.State{}, err
	}

	return s, nil
}

func (r *PostgresRepo) States(ctx context.Context) ([]models.State, error) {
	const op = "storage.postgres.States"

	query := `
		SELECT id, state_code, state_name, country_code, active, sort_seq
		FROM states
		ORDER BY sort_seq, state_code;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.State

	for rows.Next() {
		var s models.State

		if err := rows.Scan(&s.ID, &s.StateCode, &s.StateName, &s.CountryCode, &s.Active, &s.SortSeq); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return out, nil
}

func (r *PostgresRepo) UpdateState(ctx context.Context, s models.State) error {
	const op = "storage.postgres.UpdateState"

	query := `
		UPDATE states
		SET state_code = $1, state_name = $2, country_code = $3, active = $4, sort_seq = $5
		WHERE id = $6;
	`

	tag, err := r.pool.Exec(ctx, query, s.StateCode, s.StateName, s.CountryCode, s.Active, s.SortSeq, s.ID)
	if err != nil {
		return geoWriteErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (r *PostgresRepo) DeleteState(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteState"

	tag, err := r.pool.Exec(ctx, `DELETE FROM states WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (r *PostgresRepo) SaveCity(ctx context.Context, c models.City) error {
	const op = "storage.postgres.SaveCity"

	query := `
		INSERT INTO cities (id, city_name, state_code, country_code, active, sort_seq)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err := r.pool.Exec(ctx, query, c.ID, c.CityName, c.StateCode, c.CountryCode, c.Active, c.SortSeq)

	return geoWriteErr(op, err)
}

func (r *PostgresRepo) City(ctx context.Context, id string) (models.City, error) {
	query := `
		SELECT id, city_name, state_code, country_code, active, sort_seq
		FROM cities
		WHERE id = $1;
	`

	var c models.City

	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.CityName, &c.StateCode, &c.CountryCode, &c.Active, &c.SortSeq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.City{}, storage.ErrNotFound
		}

		return models.City{}, err
	}

	return c, nil
}

func (r *PostgresRepo) Cities(ctx context.Context) ([]models.City, error) {
	const op = "storage.postgres.Cities"

	query := `
		SELECT id, city_name, state_code, country_code, active, sort_seq
		FROM cities
		ORDER BY sort_seq, city_name;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.City

	for rows.Next() {
		var c models.City

		if err := rows.Scan(&c.ID, &c.CityName, &c.StateCode, &c.CountryCode, &c.Active, &c.SortSeq); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return out, nil
}

func (r *PostgresRepo) UpdateCity(ctx context.Context, c models.City) error {
	const op = "storage.postgres.UpdateCity"

	query := `
		UPDATE cities
		SET city_name = $1, state_code = $2, country_code = $3, active = $4, sort_seq = $5
		WHERE id = $6;
	`

	tag, err := r.pool.Exec(ctx, query, c.CityName, c.StateCode, c.CountryCode, c.Active, c.SortSeq, c.ID)
	if err != nil {
		return geoWriteErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (r *PostgresRepo) DeleteCity(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteCity"

	tag, err := r.pool.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func geoWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return storage.ErrExists
	}

	return fmt.Errorf("%s: %w", op, err)
}
