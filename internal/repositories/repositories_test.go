package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name   string
	users  UserStore
	owners OwnerStore
}

// setupBackends returns a fresh JSON backend in a temp dir and a migrated in-memory SQLite backend.
func setupBackends(t *testing.T) []backend {
	t.Helper()

	dir := t.TempDir()
	db, err := shared.OpenDatabase(context.Background(), shared.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return []backend{
		{
			name:   "json",
			users:  NewUserFile(filepath.Join(dir, UsersFile)),
			owners: NewOwnerFile(filepath.Join(dir, PlaylistsFile)),
		},
		{
			name:   "sqlite",
			users:  NewUserRepository(db),
			owners: NewOwnerRepository(db),
		},
	}
}

func sampleUser(name string) *models.User {
	return &models.User{Username: name, Password: "pw-" + name, FullName: "Full " + name, ImageURL: "https://img/" + name}
}

func TestUserStores(t *testing.T) {
	ctx := context.Background()

	for _, b := range setupBackends(t) {
		t.Run(b.name, func(t *testing.T) {
			t.Run("Create and Get", func(t *testing.T) {
				require.NoError(t, b.users.Create(ctx, sampleUser("alice")))

				got, err := b.users.Get(ctx, "alice")
				require.NoError(t, err)
				require.Equal(t, sampleUser("alice"), got)
			})

			t.Run("Duplicate username conflicts", func(t *testing.T) {
				err := b.users.Create(ctx, sampleUser("alice"))
				require.ErrorIs(t, err, shared.ErrConflict)
			})

			t.Run("Usernames are case-sensitive", func(t *testing.T) {
				require.NoError(t, b.users.Create(ctx, sampleUser("Alice")))
			})

			t.Run("Validation", func(t *testing.T) {
				err := b.users.Create(ctx, &models.User{Username: "bob"})
				require.ErrorIs(t, err, shared.ErrValidation)
			})

			t.Run("Get missing", func(t *testing.T) {
				_, err := b.users.Get(ctx, "nobody")
				require.ErrorIs(t, err, ErrRecordNotFound)
				require.ErrorIs(t, err, shared.ErrNotFound)
			})

			t.Run("List keeps registration order", func(t *testing.T) {
				users, err := b.users.List(ctx)
				require.NoError(t, err)
				require.Len(t, users, 2)
				require.Equal(t, "alice", users[0].Username)
				require.Equal(t, "Alice", users[1].Username)
			})
		})
	}
}

func TestOwnerStores(t *testing.T) {
	ctx := context.Background()

	for _, b := range setupBackends(t) {
		t.Run(b.name, func(t *testing.T) {
			t.Run("Get missing", func(t *testing.T) {
				_, err := b.owners.Get(ctx, "alice")
				require.ErrorIs(t, err, ErrRecordNotFound)
			})

			t.Run("Put inserts then replaces", func(t *testing.T) {
				owner := models.NewOwner("alice")
				owner.Playlists = append(owner.Playlists, models.NewPlaylist("Favorites"))
				require.NoError(t, b.owners.Put(ctx, owner))
				require.NoError(t, b.owners.Put(ctx, models.NewOwner("bob")))

				owner.Playlists[0].Videos = append(owner.Playlists[0].Videos, models.Video{VideoID: "v1", Title: "One", Rating: 3})
				require.NoError(t, b.owners.Put(ctx, owner))

				got, err := b.owners.Get(ctx, "alice")
				require.NoError(t, err)
				require.Equal(t, owner, got)

				owners, err := b.owners.List(ctx)
				require.NoError(t, err)
				require.Len(t, owners, 2)
				require.Equal(t, "alice", owners[0].Username, "replacing an owner keeps its position")
			})

			t.Run("Put rejects duplicate playlist names", func(t *testing.T) {
				owner := models.NewOwner("carol")
				owner.Playlists = append(owner.Playlists, models.NewPlaylist("A"), models.NewPlaylist("A"))
				require.ErrorIs(t, b.owners.Put(ctx, owner), shared.ErrConflict)
			})

			t.Run("Delete", func(t *testing.T) {
				require.NoError(t, b.owners.Delete(ctx, "bob"))
				require.ErrorIs(t, b.owners.Delete(ctx, "bob"), ErrRecordNotFound)

				owners, err := b.owners.List(ctx)
				require.NoError(t, err)
				require.Len(t, owners, 1)
			})
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("json", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Storage.DataDir = t.TempDir()

		stores, err := Open(ctx, cfg)
		require.NoError(t, err)
		defer stores.Close()

		require.IsType(t, &UserFile{}, stores.Users)
		require.IsType(t, &OwnerFile{}, stores.Owners)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Storage.Driver = shared.StorageSQLite
		cfg.Database.Path = filepath.Join(t.TempDir(), "mixtape.db")

		stores, err := Open(ctx, cfg)
		require.NoError(t, err)
		defer stores.Close()

		require.NoError(t, stores.Users.Create(ctx, sampleUser("alice")))
		require.IsType(t, &UserRepository{}, stores.Users)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		cfg.Storage.Driver = "mongo"

		_, err := Open(ctx, cfg)
		require.ErrorIs(t, err, shared.ErrInvalidConfig)
	})
}
