// package services defines the account and playlist services used by the HTTP API and CLI
package services

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/repositories"
)

// Clock returns the current time; tests replace it to make generated IDs predictable.
type Clock func() time.Time

// Recorder receives domain events for metrics. A nil Recorder is ignored.
type Recorder interface {
	Registered()
	LoggedIn(ok bool)
	PlaylistCreated()
	TrackUploaded()
}

type nopRecorder struct{}

func (nopRecorder) Registered()      {}
func (nopRecorder) LoggedIn(bool)    {}
func (nopRecorder) PlaylistCreated() {}
func (nopRecorder) TrackUploaded()   {}

func loggerOrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// loadOwner returns the stored owner for username, or nil when none exists.
func loadOwner(ctx context.Context, store repositories.OwnerStore, username string) (*models.Owner, error) {
	owner, err := store.Get(ctx, username)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return owner, nil
}
