package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestNewTokenAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := "7d486b29-0ba7-4d3f-9dc1-b113dbf2a9e9"

	tok, err := NewToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := ParseUserID(tok, secret)
	if err != nil {
		t.Fatalf("ParseUserID error: %v", err)
	}
	if got != userID {
		t.Fatalf("user id mismatch: got %q want %q", got, userID)
	}
}

func TestParseUserID_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := NewToken("u1", secret, -1*time.Minute)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	_, err = ParseUserID(tok, secret)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseUserID_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewToken("u2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	_, err = ParseUserID(tok, []byte("wrong-secret"))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParseUserID_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseUserID("not.a.jwt", []byte("k"))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}
