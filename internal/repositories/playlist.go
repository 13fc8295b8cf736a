package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
)

// OwnerRepository implements [OwnerStore] on SQLite.
//
// Each owner is one row of playlist_owners; the ordered playlists are encoded into the playlists column as JSON.
type OwnerRepository struct {
	db *sql.DB
}

// NewOwnerRepository creates a new [OwnerRepository] with the given database connection
func NewOwnerRepository(db *sql.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Put inserts the owner or replaces its playlists, keeping the original row position
func (r *OwnerRepository) Put(ctx context.Context, owner *models.Owner) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	owner.Normalize()

	playlists, err := json.Marshal(owner.Playlists)
	if err != nil {
		return fmt.Errorf("failed to encode playlists: %w", err)
	}

	query := `
		INSERT INTO playlist_owners (username, playlists) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET playlists = excluded.playlists, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.ExecContext(ctx, query, owner.Username, string(playlists)); err != nil {
		return fmt.Errorf("failed to upsert owner: %w", err)
	}

	return nil
}

// Get retrieves the owner record for username
func (r *OwnerRepository) Get(ctx context.Context, username string) (*models.Owner, error) {
	query := `SELECT username, playlists FROM playlist_owners WHERE username = ?`

	var (
		name      string
		playlists string
	)

	err := r.db.QueryRowContext(ctx, query, username).Scan(&name, &playlists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: owner %s", ErrRecordNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query owner: %w", err)
	}

	return decodeOwner(name, playlists)
}

// Delete removes the owner record for username
func (r *OwnerRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlist_owners WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: owner %s", ErrRecordNotFound, username)
	}

	return nil
}

// List retrieves every owner in insertion order
func (r *OwnerRepository) List(ctx context.Context) ([]models.Owner, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, playlists FROM playlist_owners ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query owners: %w", err)
	}
	defer rows.Close()

	owners := []models.Owner{}
	for rows.Next() {
		var name, playlists string
		if err := rows.Scan(&name, &playlists); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}

		owner, err := decodeOwner(name, playlists)
		if err != nil {
			return nil, err
		}
		owners = append(owners, *owner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return owners, nil
}

func decodeOwner(username, playlists string) (*models.Owner, error) {
	owner := models.NewOwner(username)
	if err := json.Unmarshal([]byte(playlists), &owner.Playlists); err != nil {
		return nil, fmt.Errorf("failed to decode playlists for %s: %w", username, err)
	}
	owner.Normalize()
	return owner, nil
}

// OwnerFile implements [OwnerStore] on a JSON [Document].
type OwnerFile struct {
	doc *Document[models.Owner]
}

// NewOwnerFile creates an [OwnerFile] backed by the document at path
func NewOwnerFile(path string) *OwnerFile {
	return &OwnerFile{doc: NewDocument[models.Owner](path)}
}

// Put replaces the owner in place, or appends it when absent, and rewrites the document
func (f *OwnerFile) Put(ctx context.Context, owner *models.Owner) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	owner.Normalize()

	return f.doc.Update(ctx, func(owners []models.Owner) ([]models.Owner, error) {
		for i := range owners {
			if owners[i].Username == owner.Username {
				owners[i] = *owner
				return owners, nil
			}
		}
		return append(owners, *owner), nil
	})
}

// Get loads the document and returns the owner record for username
func (f *OwnerFile) Get(ctx context.Context, username string) (*models.Owner, error) {
	owners, err := f.doc.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range owners {
		if owners[i].Username == username {
			owner := owners[i]
			owner.Normalize()
			return &owner, nil
		}
	}
	return nil, fmt.Errorf("%w: owner %s", ErrRecordNotFound, username)
}

// Delete removes the owner record for username and rewrites the document
func (f *OwnerFile) Delete(ctx context.Context, username string) error {
	return f.doc.Update(ctx, func(owners []models.Owner) ([]models.Owner, error) {
		for i := range owners {
			if owners[i].Username == username {
				return append(owners[:i], owners[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: owner %s", ErrRecordNotFound, username)
	})
}

// List loads every owner in document order
func (f *OwnerFile) List(ctx context.Context) ([]models.Owner, error) {
	owners, err := f.doc.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range owners {
		owners[i].Normalize()
	}
	return owners, nil
}
