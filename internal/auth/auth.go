// Package auth implements the login / sign-out core: credential
// verification, bearer-token issuance with server-side persistence, and
// session invalidation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jwtlib "location_service/internal/lib/jwt"
	sl "location_service/internal/lib/logger"
	"location_service/internal/models"
	"location_service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("session not found")
)

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

type TokenStore interface {
	Token(ctx context.Context, userID string) (models.Token, error)
	SaveToken(ctx context.Context, token models.Token) error
	DeleteToken(ctx context.Context, userID string) error
}

type Auth struct {
	log      *slog.Logger
	users    UserProvider
	tokens   TokenStore
	secret   []byte
	tokenTTL time.Duration
}

func New(
	log *slog.Logger,
	users UserProvider,
	tokens TokenStore,
	secret string,
	tokenTTL time.Duration,
) *Auth {
	return &Auth{
		log:      log,
		users:    users,
		tokens:   tokens,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Login verifies the credential pair and returns the user's bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Info("login rejected")
			return "", ErrInvalidCredentials
		}

		log.Error("failed to get user", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := a.issueToken(ctx, log, user.ID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("uid", user.ID))

	return token, nil
}

// issueToken returns the user's existing token if one is persisted, otherwise
// mints a new one. Tokens are not rotated on repeat login. When a concurrent
// login wins the insert, the loser re-reads and returns the winner's token.
func (a *Auth) issueToken(ctx context.Context, log *slog.Logger, userID string) (string, error) {
	existing, err := a.tokens.Token(ctx, userID)
	if err == nil {
		return existing.Token, nil
	}
	if !errors.Is(err, storage.ErrTokenNotFound) {
		log.Error("failed to look up token", sl.Err(err))
		return "", err
	}

	minted, err := jwtlib.NewToken(userID, a.secret, a.tokenTTL)
	if err != nil {
		log.Error("failed to sign token", sl.Err(err))
		return "", err
	}

	err = a.tokens.SaveToken(ctx, models.Token{UserID: userID, Token: minted})
	if err != nil {
		if errors.Is(err, storage.ErrTokenExists) {
			winner, rerr := a.tokens.Token(ctx, userID)
			if rerr != nil {
				log.Error("failed to re-read token after conflict", sl.Err(rerr))
				return "", rerr
			}

			return winner.Token, nil
		}

		log.Error("failed to save token", sl.Err(err))
		return "", err
	}

	return minted, nil
}

// SignOut deletes the user's persisted token. The token string itself stays
// cryptographically valid until its embedded expiry; only the server-side
// presence check stops recognizing it.
func (a *Auth) SignOut(ctx context.Context, userID string) error {
	const op = "auth.SignOut"

	log := a.log.With(slog.String("op", op))

	err := a.tokens.DeleteToken(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			log.Info("no active session", slog.String("uid", userID))
			return ErrSessionNotFound
		}

		log.Error("failed to delete token", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user signed out", slog.String("uid", userID))

	return nil
}

// VerifyToken checks the signature and expiry of a raw bearer token and then
// requires the exact token string to still be persisted for its user.
func (a *Auth) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	const op = "auth.VerifyToken"

	userID, err := jwtlib.ParseUserID(rawToken, a.secret)
	if err != nil {
		return "", ErrInvalidToken
	}

	persisted, err := a.tokens.Token(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return "", ErrSessionNotFound
		}

		a.log.Error("failed to look up token", slog.String("op", op), sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if persisted.Token != rawToken {
		return "", ErrInvalidToken
	}

	return userID, nil
}
