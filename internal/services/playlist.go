package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/desertthunder/mixtape/internal/shared"
)

// UploadIDPrefix prefixes the millisecond timestamp that identifies uploaded tracks.
const UploadIDPrefix = "mp3-"

// PlaylistService manages the playlists of every owner.
type PlaylistService struct {
	owners  repositories.OwnerStore
	logger  *log.Logger
	metrics Recorder
	now     Clock
	mu      sync.Mutex
}

// PlaylistOption configures a [PlaylistService].
type PlaylistOption func(*PlaylistService)

// WithClock replaces [time.Now] as the source of upload IDs.
func WithClock(c Clock) PlaylistOption {
	return func(s *PlaylistService) { s.now = c }
}

// WithRecorder reports domain events to r.
func WithRecorder(r Recorder) PlaylistOption {
	return func(s *PlaylistService) { s.metrics = recorderOrNop(r) }
}

// NewPlaylistService creates a [PlaylistService] over owners. logger may be nil.
func NewPlaylistService(owners repositories.OwnerStore, logger *log.Logger, opts ...PlaylistOption) *PlaylistService {
	s := &PlaylistService{
		owners:  owners,
		logger:  loggerOrDefault(logger),
		metrics: nopRecorder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// mutate runs fn against the owner of username and persists the result, all under the service lock.
//
// When the owner does not exist, create decides whether a fresh one is handed to fn or [shared.ErrNotFound] is returned.
func (s *PlaylistService) mutate(ctx context.Context, username string, create bool, fn func(*models.Owner) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, err := loadOwner(ctx, s.owners, username)
	if err != nil {
		return err
	}
	if owner == nil {
		if !create {
			return fmt.Errorf("%w: user %s", shared.ErrNotFound, username)
		}
		owner = models.NewOwner(username)
	}

	if err := fn(owner); err != nil {
		return err
	}

	return s.owners.Put(ctx, owner)
}

// mutatePlaylist is [PlaylistService.mutate] for operations that need an existing playlist.
func (s *PlaylistService) mutatePlaylist(ctx context.Context, username, name string, fn func(*models.Playlist) error) error {
	return s.mutate(ctx, username, false, func(owner *models.Owner) error {
		playlist := owner.Playlist(name)
		if playlist == nil {
			return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, name)
		}
		return fn(playlist)
	})
}

// ListPlaylists returns the playlists of username in creation order; users without an owner record get an empty list.
func (s *PlaylistService) ListPlaylists(ctx context.Context, username string) ([]models.Playlist, error) {
	owner, err := loadOwner(ctx, s.owners, username)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return []models.Playlist{}, nil
	}
	return owner.Playlists, nil
}

// GetPlaylist returns a single playlist of username.
func (s *PlaylistService) GetPlaylist(ctx context.Context, username, name string) (*models.Playlist, error) {
	owner, err := loadOwner(ctx, s.owners, username)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, username)
	}

	playlist := owner.Playlist(name)
	if playlist == nil {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, name)
	}
	return playlist, nil
}

// CreatePlaylist appends an empty playlist, creating the owner record on first use.
func (s *PlaylistService) CreatePlaylist(ctx context.Context, username, name string) error {
	if name == "" {
		return fmt.Errorf("%w: playlist name required", shared.ErrValidation)
	}

	err := s.mutate(ctx, username, true, func(owner *models.Owner) error {
		if owner.FindPlaylist(name) >= 0 {
			return fmt.Errorf("%w: playlist %s", shared.ErrConflict, name)
		}
		owner.Playlists = append(owner.Playlists, models.NewPlaylist(name))
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.PlaylistCreated()
	s.logger.Debug("playlist created", "username", username, "playlist", name)
	return nil
}

// DeletePlaylist removes the playlist called name.
func (s *PlaylistService) DeletePlaylist(ctx context.Context, username, name string) error {
	return s.mutate(ctx, username, false, func(owner *models.Owner) error {
		i := owner.FindPlaylist(name)
		if i < 0 {
			return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, name)
		}
		owner.Playlists = append(owner.Playlists[:i], owner.Playlists[i+1:]...)
		return nil
	})
}

// AddVideo appends video to a playlist. Video IDs must be unique within the playlist.
func (s *PlaylistService) AddVideo(ctx context.Context, username, name string, video models.Video) error {
	if err := video.Validate(); err != nil {
		return err
	}

	return s.mutatePlaylist(ctx, username, name, func(playlist *models.Playlist) error {
		if playlist.FindVideo(video.VideoID) >= 0 {
			return fmt.Errorf("%w: video %s", shared.ErrConflict, video.VideoID)
		}
		playlist.Videos = append(playlist.Videos, video)
		return nil
	})
}

// RemoveVideo deletes a video from a playlist.
func (s *PlaylistService) RemoveVideo(ctx context.Context, username, name, videoID string) error {
	return s.mutatePlaylist(ctx, username, name, func(playlist *models.Playlist) error {
		i := playlist.FindVideo(videoID)
		if i < 0 {
			return fmt.Errorf("%w: video %s", shared.ErrNotFound, videoID)
		}
		playlist.Videos = append(playlist.Videos[:i], playlist.Videos[i+1:]...)
		return nil
	})
}

// SetRating overwrites the rating of a video. Any value is accepted.
func (s *PlaylistService) SetRating(ctx context.Context, username, name, videoID string, rating float64) error {
	return s.mutatePlaylist(ctx, username, name, func(playlist *models.Playlist) error {
		i := playlist.FindVideo(videoID)
		if i < 0 {
			return fmt.Errorf("%w: video %s", shared.ErrNotFound, videoID)
		}
		playlist.Videos[i].Rating = rating
		return nil
	})
}

// AddUploadedTrack appends a local MP3 that has already been written to storedPath.
//
// The ID is derived from the current time and is not checked for duplicates. The title is the original
// filename with any latin1 misreading undone.
func (s *PlaylistService) AddUploadedTrack(ctx context.Context, username, name, filename, storedPath string) (*models.Video, error) {
	video := models.Video{
		VideoID: UploadIDPrefix + strconv.FormatInt(s.now().UnixMilli(), 10),
		Title:   shared.RecoverFilename(filename),
		Channel: models.LocalChannel,
		Type:    models.VideoTypeMP3,
		File:    storedPath,
		Rating:  0,
	}

	err := s.mutatePlaylist(ctx, username, name, func(playlist *models.Playlist) error {
		playlist.Videos = append(playlist.Videos, video)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TrackUploaded()
	s.logger.Info("track uploaded", "username", username, "playlist", name, "file", storedPath)
	return &video, nil
}
