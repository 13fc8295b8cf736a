// package repositories provides persistence layer implementations for users and playlist owners.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	UsersFile     = "users.json"
	PlaylistsFile = "playlists.json"
)

// ErrRecordNotFound is returned when no record exists for a key. It matches [shared.ErrNotFound].
var ErrRecordNotFound = fmt.Errorf("record %w", shared.ErrNotFound)

// UserStore persists registered users keyed by username.
type UserStore interface {
	Get(ctx context.Context, username string) (*models.User, error) // Get returns [ErrRecordNotFound] for unknown usernames
	Create(ctx context.Context, user *models.User) error            // Create fails with [shared.ErrConflict] if the username is taken
	List(ctx context.Context) ([]models.User, error)                // List returns users in registration order
}

// OwnerStore persists playlist owners keyed by username.
type OwnerStore interface {
	Get(ctx context.Context, username string) (*models.Owner, error) // Get returns [ErrRecordNotFound] for unknown owners
	Put(ctx context.Context, owner *models.Owner) error              // Put inserts or replaces the owner record
	Delete(ctx context.Context, username string) error               // Delete returns [ErrRecordNotFound] for unknown owners
	List(ctx context.Context) ([]models.Owner, error)                // List returns owners in creation order
}

// Stores bundles the stores of one backend together with the resources they hold.
type Stores struct {
	Users  UserStore
	Owners OwnerStore
	db     *sql.DB
}

// Open builds the stores selected by cfg.Storage.Driver.
//
// The SQLite backend opens the database from cfg.Database and applies pending migrations.
func Open(ctx context.Context, cfg *shared.Config) (*Stores, error) {
	switch cfg.Storage.Driver {
	case shared.StorageJSON, "":
		return &Stores{
			Users:  NewUserFile(filepath.Join(cfg.Storage.DataDir, UsersFile)),
			Owners: NewOwnerFile(filepath.Join(cfg.Storage.DataDir, PlaylistsFile)),
		}, nil
	case shared.StorageSQLite:
		db, err := shared.OpenDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return &Stores{Users: NewUserRepository(db), Owners: NewOwnerRepository(db), db: db}, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, cfg.Storage.Driver)
	}
}

// Close releases the database connection, if any.
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
