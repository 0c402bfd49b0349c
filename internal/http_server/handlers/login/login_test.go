package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"location_service/internal/auth"
	resp "location_service/internal/lib/api/response"

	"github.com/go-playground/validator/v10"
)

type fakeAuthenticator struct {
	token string
	err   error
}

func (f *fakeAuthenticator) Login(ctx context.Context, email, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoginHandler_Success(t *testing.T) {
	handler := New(discardLogger(), validator.New(), &fakeAuthenticator{token: "tok-123"})

	body := `{"email":"a@b.com","password":"Passw0rd!"}`
	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got Response
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.AccessToken != "tok-123" {
		t.Fatalf("expected access token in response, got %+v", got)
	}
	if got.Message != "Login successful" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	handler := New(discardLogger(), validator.New(), &fakeAuthenticator{err: auth.ErrInvalidCredentials})

	body := `{"email":"a@b.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("access_token")) {
		t.Fatal("failed login must not carry a token field")
	}
}

func TestLoginHandler_ValidationFailure(t *testing.T) {
	handler := New(discardLogger(), validator.New(), &fakeAuthenticator{token: "unused"})

	body := `{"email":"not-an-email"}`
	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var got resp.Response
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got.Violations) == 0 {
		t.Fatal("expected field-level violations in response")
	}
}

func TestLoginHandler_MalformedBody(t *testing.T) {
	handler := New(discardLogger(), validator.New(), &fakeAuthenticator{token: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
