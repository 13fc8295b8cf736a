package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/desertthunder/mixtape/internal/sessions"
	"github.com/desertthunder/mixtape/internal/shared"
	tu "github.com/desertthunder/mixtape/internal/testing"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func setupAccounts(t *testing.T) (*AccountService, *sessions.MemoryStore, *tu.MockRecorder) {
	t.Helper()
	store := sessions.NewMemoryStore()
	rec := &tu.MockRecorder{}
	users := repositories.NewUserFile(filepath.Join(t.TempDir(), repositories.UsersFile))
	return NewAccountService(users, store, quietLogger(), rec), store, rec
}

func alice() RegisterInput {
	return RegisterInput{Username: "alice", Password: "hunter2", FullName: "Alice Liddell", ImageURL: "https://img/alice.png"}
}

func TestAccountService(t *testing.T) {
	ctx := context.Background()

	t.Run("Register", func(t *testing.T) {
		t.Run("duplicate username conflicts", func(t *testing.T) {
			svc, _, rec := setupAccounts(t)

			if err := svc.Register(ctx, alice()); err != nil {
				t.Fatalf("first registration failed: %v", err)
			}
			if err := svc.Register(ctx, alice()); !errors.Is(err, shared.ErrConflict) {
				t.Errorf("expected ErrConflict, got %v", err)
			}
			if rec.Registrations != 1 {
				t.Errorf("expected 1 registration recorded, got %d", rec.Registrations)
			}
		})

		t.Run("missing fields", func(t *testing.T) {
			svc, _, _ := setupAccounts(t)

			in := alice()
			in.ImageURL = ""
			if err := svc.Register(ctx, in); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})

		t.Run("store failure", func(t *testing.T) {
			svc := NewAccountService(tu.FailingUsers{}, sessions.NewMemoryStore(), quietLogger(), nil)
			if err := svc.Register(ctx, alice()); !errors.Is(err, tu.ErrStore) {
				t.Errorf("expected store error, got %v", err)
			}
		})

		t.Run("concurrent duplicates", func(t *testing.T) {
			svc, _, _ := setupAccounts(t)

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				conflicts int
			)
			for range 20 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := svc.Register(ctx, alice())
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					case errors.Is(err, shared.ErrConflict):
						conflicts++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			wg.Wait()

			if successes != 1 || conflicts != 19 {
				t.Errorf("expected 1 success and 19 conflicts, got %d and %d", successes, conflicts)
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		svc, store, rec := setupAccounts(t)
		if err := svc.Register(ctx, alice()); err != nil {
			t.Fatalf("register failed: %v", err)
		}

		t.Run("wrong password", func(t *testing.T) {
			if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, shared.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})

		t.Run("unknown user", func(t *testing.T) {
			if _, err := svc.Login(ctx, "bob", "hunter2"); !errors.Is(err, shared.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})

		t.Run("token resolves immediately", func(t *testing.T) {
			result, err := svc.Login(ctx, "alice", "hunter2")
			if err != nil {
				t.Fatalf("login failed: %v", err)
			}

			username, err := store.Resolve(ctx, result.Token)
			if err != nil || username != "alice" {
				t.Errorf("expected token to resolve to alice, got %q, %v", username, err)
			}

			if result.User.Username != "alice" || result.User.FullName != "Alice Liddell" {
				t.Errorf("unexpected public user %+v", result.User)
			}
		})

		if rec.Logins != 1 || rec.FailedLogins != 2 {
			t.Errorf("expected 1 login and 2 failures, got %d and %d", rec.Logins, rec.FailedLogins)
		}
	})

	t.Run("Logout", func(t *testing.T) {
		svc, _, _ := setupAccounts(t)
		if err := svc.Register(ctx, alice()); err != nil {
			t.Fatalf("register failed: %v", err)
		}

		result, err := svc.Login(ctx, "alice", "hunter2")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}

		if _, err := svc.Authenticate(ctx, result.Token); err != nil {
			t.Fatalf("fresh token should authenticate: %v", err)
		}

		if err := svc.Logout(ctx, result.Token); err != nil {
			t.Fatalf("logout failed: %v", err)
		}

		if _, err := svc.Authenticate(ctx, result.Token); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized after logout, got %v", err)
		}
		if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized for empty token, got %v", err)
		}
	})

	t.Run("Users hides passwords", func(t *testing.T) {
		svc, _, _ := setupAccounts(t)
		if err := svc.Register(ctx, alice()); err != nil {
			t.Fatalf("register failed: %v", err)
		}

		users, err := svc.Users(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(users) != 1 || users[0].Username != "alice" {
			t.Errorf("unexpected users %+v", users)
		}
	})
}
