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

const uniqueViolation = "23505"

func (r *PostgresRepo) SaveUser(ctx context.Context, user models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (id, email, name, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5);
	`

	_, err := r.pool.Exec(ctx, query, user.ID, user.Email, user.Name, user.Phone, string(user.PassHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrUserExists
		}

		return fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `
		SELECT id, email, name, phone, password_hash
		FROM users
		WHERE email = $1;
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PostgresRepo) UserByID(ctx context.Context, id string) (models.User, error) {
	query := `
		SELECT id, email, name, phone, password_hash
		FROM users
		WHERE id = $1;
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepo) Users(ctx context.Context) ([]models.User, error) {
	const op = "storage.postgres.Users"

	query := `
		SELECT id, email, name, phone, password_hash
		FROM users
		ORDER BY email;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User

	for rows.Next() {
		var u models.User
		var hash string

		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &hash); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		u.PassHash = []byte(hash)
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return users, nil
}

func (r *PostgresRepo) UpdateUser(ctx context.Context, user models.User) error {
	const op = "storage.postgres.UpdateUser"

	query := `
		UPDATE users
		SET email = $1, name = $2, phone = $3, password_hash = $4
		WHERE id = $5;
	`

	tag, err := r.pool.Exec(ctx, query, user.Email, user.Name, user.Phone, string(user.PassHash), user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrUserExists
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepo) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteUser"

	// Token row goes with the user via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepo) Token(ctx context.Context, userID string) (models.Token, error) {
	query := `
		SELECT user_id, token
		FROM tokens
		WHERE user_id = $1;
	`

	var t models.Token

	err := r.pool.QueryRow(ctx, query, userID).Scan(&t.UserID, &t.Token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Token{}, storage.ErrTokenNotFound
		}

		return models.Token{}, err
	}

	return t, nil
}

func (r *PostgresRepo) SaveToken(ctx context.Context, token models.Token) error {
	const op = "storage.postgres.SaveToken"

	query := `
		INSERT INTO tokens (user_id, token)
		VALUES ($1, $2);
	`

	_, err := r.pool.Exec(ctx, query, token.UserID, token.Token)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrTokenExists
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) DeleteToken(ctx context.Context, userID string) error {
	const op = "storage.postgres.DeleteToken"

	tag, err := r.pool.Exec(ctx, `DELETE FROM tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrTokenNotFound
	}

	return nil
}

func (r *PostgresRepo) scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	var hash string

	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	u.PassHash = []byte(hash)

	return u, nil
}
