package users

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"location_service/internal/models"
	"location_service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStorage struct {
	byID     map[string]models.User
	byEmail  map[string]string
	saveErr  error
	updated  *models.User
	deleted  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		byID:    map[string]models.User{},
		byEmail: map[string]string{},
	}
}

func (f *fakeStorage) SaveUser(ctx context.Context, user models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return storage.ErrUserExists
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user.ID
	return nil
}

func (f *fakeStorage) UserByID(ctx context.Context, id string) (models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStorage) Users(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStorage) UpdateUser(ctx context.Context, user models.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return storage.ErrUserNotFound
	}
	f.byID[user.ID] = user
	f.updated = &user
	return nil
}

func (f *fakeStorage) DeleteUser(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return storage.ErrUserNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type recordingPublisher struct {
	msgs []models.Message
	err  error
}

func (p *recordingPublisher) SendMessage(ctx context.Context, msg models.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func TestSignup_HashesPassword(t *testing.T) {
	store := newFakeStorage()
	pub := &recordingPublisher{}
	s := New(discardLogger(), store, pub)

	user, err := s.Signup(context.Background(), "a@b.com", "Passw0rd!", "1234567890", "A")
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	if user.ID == "" {
		t.Fatal("expected generated id")
	}
	if bytes.Contains(user.PassHash, []byte("Passw0rd!")) {
		t.Fatal("stored hash contains the plaintext password")
	}
	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte("Passw0rd!")); err != nil {
		t.Fatalf("stored hash does not verify against the password: %v", err)
	}

	if len(pub.msgs) != 1 || pub.msgs[0].Purpose != "welcome" || pub.msgs[0].Email != "a@b.com" {
		t.Fatalf("expected one welcome event for a@b.com, got %+v", pub.msgs)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	store := newFakeStorage()
	s := New(discardLogger(), store, nil)

	if _, err := s.Signup(context.Background(), "a@b.com", "Passw0rd!", "1", "A"); err != nil {
		t.Fatalf("first Signup error: %v", err)
	}

	_, err := s.Signup(context.Background(), "a@b.com", "Other1!", "2", "B")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignup_PublisherFailureDoesNotFailSignup(t *testing.T) {
	store := newFakeStorage()
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := New(discardLogger(), store, pub)

	if _, err := s.Signup(context.Background(), "a@b.com", "Passw0rd!", "1", "A"); err != nil {
		t.Fatalf("Signup error: %v", err)
	}
}

func TestUpdate_EmptyPasswordKeepsHash(t *testing.T) {
	store := newFakeStorage()
	s := New(discardLogger(), store, nil)

	user, err := s.Signup(context.Background(), "a@b.com", "Passw0rd!", "1", "A")
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	updated, err := s.Update(context.Background(), user.ID, "a@b.com", "", "999", "A2")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if !bytes.Equal(updated.PassHash, user.PassHash) {
		t.Fatal("hash changed although no password was supplied")
	}
	if updated.Phone != "999" || updated.Name != "A2" {
		t.Fatalf("profile fields not updated: %+v", updated)
	}
}

func TestUpdate_NewPasswordRehashes(t *testing.T) {
	store := newFakeStorage()
	s := New(discardLogger(), store, nil)

	user, err := s.Signup(context.Background(), "a@b.com", "Passw0rd!", "1", "A")
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	updated, err := s.Update(context.Background(), user.ID, "a@b.com", "NewPass1!", "1", "A")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if bytes.Equal(updated.PassHash, user.PassHash) {
		t.Fatal("hash unchanged although a new password was supplied")
	}
	if err := bcrypt.CompareHashAndPassword(updated.PassHash, []byte("NewPass1!")); err != nil {
		t.Fatalf("new hash does not verify: %v", err)
	}
}

func TestUpdate_UnknownUser(t *testing.T) {
	s := New(discardLogger(), newFakeStorage(), nil)

	_, err := s.Update(context.Background(), "missing", "a@b.com", "", "1", "A")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := newFakeStorage()
	s := New(discardLogger(), store, nil)

	user, err := s.Signup(context.Background(), "a@b.com", "Passw0rd!", "1", "A")
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	if err := s.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	if err := s.Delete(context.Background(), user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
