package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// UserRepository implements [UserStore] on SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user; the username primary key rejects duplicates
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	query := `INSERT INTO users (username, password, full_name, image_url) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.Username, user.Password, user.FullName, user.ImageURL)
	if isConstraintErr(err) {
		return fmt.Errorf("%w: user %s", shared.ErrConflict, user.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by username
func (r *UserRepository) Get(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT username, password, full_name, image_url FROM users WHERE username = ?`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.Username, &user.Password, &user.FullName, &user.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", ErrRecordNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// List retrieves all users in insertion order
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT username, password, full_name, image_url FROM users ORDER BY rowid ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.Username, &user.Password, &user.FullName, &user.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// UserFile implements [UserStore] on a JSON [Document].
type UserFile struct {
	doc *Document[models.User]
}

// NewUserFile creates a [UserFile] backed by the document at path
func NewUserFile(path string) *UserFile {
	return &UserFile{doc: NewDocument[models.User](path)}
}

// Create appends user and rewrites the document
func (f *UserFile) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	return f.doc.Update(ctx, func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Username == user.Username {
				return nil, fmt.Errorf("%w: user %s", shared.ErrConflict, user.Username)
			}
		}
		return append(users, *user), nil
	})
}

// Get loads the document and returns the user with username
func (f *UserFile) Get(ctx context.Context, username string) (*models.User, error) {
	users, err := f.doc.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", ErrRecordNotFound, username)
}

// List loads every user in document order
func (f *UserFile) List(ctx context.Context) ([]models.User, error) {
	return f.doc.Load(ctx)
}

// isConstraintErr reports whether err is a SQLite uniqueness or primary key violation.
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
