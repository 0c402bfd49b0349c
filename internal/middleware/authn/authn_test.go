package authn

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"location_service/internal/auth"
)

type fakeVerifier struct {
	userID string
	err    error
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.userID, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func run(t *testing.T, verifier *fakeVerifier, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/country", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	New(discardLogger(), verifier)(next).ServeHTTP(rec, req)

	return rec, seenUserID
}

func TestAuthn_PassesUserID(t *testing.T) {
	rec, uid := run(t, &fakeVerifier{userID: "u-1"}, "Bearer some-token")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if uid != "u-1" {
		t.Fatalf("expected user id in context, got %q", uid)
	}
}

func TestAuthn_MissingHeader(t *testing.T) {
	rec, _ := run(t, &fakeVerifier{userID: "u-1"}, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthn_BadHeaderShape(t *testing.T) {
	rec, _ := run(t, &fakeVerifier{userID: "u-1"}, "Basic abc")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthn_SignedOutSession(t *testing.T) {
	rec, _ := run(t, &fakeVerifier{err: auth.ErrSessionNotFound}, "Bearer stale-token")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthn_InvalidToken(t *testing.T) {
	rec, _ := run(t, &fakeVerifier{err: auth.ErrInvalidToken}, "Bearer garbage")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthn_StoreFailure(t *testing.T) {
	rec, _ := run(t, &fakeVerifier{err: errors.New("db down")}, "Bearer tok")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
