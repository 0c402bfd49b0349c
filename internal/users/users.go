// Package users implements user account CRUD. Passwords are bcrypt-hashed on
// the way in and never leave this package in any readable form.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "location_service/internal/lib/logger"
	"location_service/internal/models"
	"location_service/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("user not found")
)

type Storage interface {
	SaveUser(ctx context.Context, user models.User) error
	UserByID(ctx context.Context, id string) (models.User, error)
	Users(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// EventPublisher delivers signup events to the mail queue. It may be nil in
// deployments without a broker.
type EventPublisher interface {
	SendMessage(ctx context.Context, msg models.Message) error
}

type Service struct {
	log     *slog.Logger
	storage Storage
	events  EventPublisher
}

func New(log *slog.Logger, storage Storage, events EventPublisher) *Service {
	return &Service{
		log:     log,
		storage: storage,
		events:  events,
	}
}

// Signup creates an account with a bcrypt hash of the supplied password.
func (s *Service) Signup(ctx context.Context, email, password, phone, name string) (models.User, error) {
	const op = "users.Signup"

	log := s.log.With(slog.String("op", op))

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Name:     name,
		Phone:    phone,
		PassHash: passHash,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Info("email already registered")
			return models.User{}, ErrEmailTaken
		}

		log.Error("failed to save user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user created", slog.String("uid", user.ID))

	// The account is already committed; a broker hiccup must not fail signup.
	if s.events != nil {
		msg := models.Message{Email: email, Name: name, Purpose: "welcome"}
		if err := s.events.SendMessage(ctx, msg); err != nil {
			log.Warn("failed to publish signup event", sl.Err(err))
		}
	}

	return user, nil
}

func (s *Service) User(ctx context.Context, id string) (models.User, error) {
	const op = "users.User"

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, ErrNotFound
		}

		s.log.Error("failed to get user", slog.String("op", op), sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	const op = "users.Users"

	list, err := s.storage.Users(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

// Update replaces email, name, and phone. An empty password means "no
// change": the stored hash is kept and nothing is re-hashed.
func (s *Service) Update(ctx context.Context, id, email, password, phone, name string) (models.User, error) {
	const op = "users.Update"

	log := s.log.With(slog.String("op", op))

	current, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, ErrNotFound
		}

		log.Error("failed to get user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	passHash := current.PassHash
	if password != "" {
		passHash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("failed to hash password", sl.Err(err))
			return models.User{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	user := models.User{
		ID:       id,
		Email:    email,
		Name:     name,
		Phone:    phone,
		PassHash: passHash,
	}

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			return models.User{}, ErrNotFound
		case errors.Is(err, storage.ErrUserExists):
			return models.User{}, ErrEmailTaken
		}

		log.Error("failed to update user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user updated", slog.String("uid", id))

	return user, nil
}

// Delete removes the account; the storage layer drops any token row with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "users.Delete"

	err := s.storage.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrNotFound
		}

		s.log.Error("failed to delete user", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user deleted", slog.String("op", op), slog.String("uid", id))

	return nil
}
