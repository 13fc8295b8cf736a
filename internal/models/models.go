// package models defines the data model for the mixtape playlist service
package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	VideoTypeMP3     = "mp3"
	VideoTypeYouTube = "youtube"

	// LocalChannel is the channel name given to uploaded tracks.
	LocalChannel = "Local MP3"
)

// Record defines the base interface for all persisted entities.
type Record interface {
	Key() string     // Key returns the unique storage key of the record
	Validate() error // Validate checks if the record's data is valid and returns an error if not
}

// User is a registered account. The password is stored and compared in plaintext.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	ImageURL string `json:"imageUrl"`
}

// PublicUser is the client-facing view of a [User].
type PublicUser struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	ImageURL string `json:"imageUrl"`
}

func (u *User) Key() string { return u.Username }

// Validate requires every field to be present.
func (u *User) Validate() error {
	var missing []string
	if u.Username == "" {
		missing = append(missing, "username")
	}
	if u.Password == "" {
		missing = append(missing, "password")
	}
	if u.FullName == "" {
		missing = append(missing, "fullName")
	}
	if u.ImageURL == "" {
		missing = append(missing, "imageUrl")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields: %s", shared.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Public strips the password.
func (u *User) Public() PublicUser {
	return PublicUser{Username: u.Username, FullName: u.FullName, ImageURL: u.ImageURL}
}

// Video is a single entry of a [Playlist].
//
// Remote videos carry a URL and thumbnail; uploaded tracks carry the stored File path.
type Video struct {
	VideoID   string  `json:"videoId"`
	Title     string  `json:"title"`
	Channel   string  `json:"channel"`
	Type      string  `json:"type"`
	File      string  `json:"file,omitempty"`
	URL       string  `json:"url,omitempty"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Rating    float64 `json:"rating"`
}

func (v *Video) Validate() error {
	if v.VideoID == "" {
		return fmt.Errorf("%w: videoId required", shared.ErrValidation)
	}
	return nil
}

// Playlist is a named, ordered list of videos. Video IDs are unique within a playlist.
type Playlist struct {
	Name   string  `json:"name"`
	Videos []Video `json:"videos"`
}

// NewPlaylist returns an empty playlist whose videos encode as [] rather than null.
func NewPlaylist(name string) Playlist {
	return Playlist{Name: name, Videos: []Video{}}
}

// FindVideo returns the index of the video with id, or -1.
func (p *Playlist) FindVideo(id string) int {
	for i := range p.Videos {
		if p.Videos[i].VideoID == id {
			return i
		}
	}
	return -1
}

// Owner holds every playlist of one user. Playlist names are unique within an owner.
type Owner struct {
	Username  string     `json:"username"`
	Playlists []Playlist `json:"playlists"`
}

// NewOwner returns an owner with no playlists.
func NewOwner(username string) *Owner {
	return &Owner{Username: username, Playlists: []Playlist{}}
}

func (o *Owner) Key() string { return o.Username }

func (o *Owner) Validate() error {
	if o.Username == "" {
		return fmt.Errorf("%w: owner username required", shared.ErrValidation)
	}

	seen := make(map[string]struct{}, len(o.Playlists))
	for _, p := range o.Playlists {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: playlist %q", shared.ErrConflict, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// FindPlaylist returns the index of the playlist called name, or -1.
func (o *Owner) FindPlaylist(name string) int {
	for i := range o.Playlists {
		if o.Playlists[i].Name == name {
			return i
		}
	}
	return -1
}

// Playlist returns a pointer into o.Playlists, or nil when no playlist is called name.
func (o *Owner) Playlist(name string) *Playlist {
	if i := o.FindPlaylist(name); i >= 0 {
		return &o.Playlists[i]
	}
	return nil
}

// Normalize replaces nil slices with empty ones so encoded documents never contain null.
func (o *Owner) Normalize() {
	if o.Playlists == nil {
		o.Playlists = []Playlist{}
	}
	for i := range o.Playlists {
		if o.Playlists[i].Videos == nil {
			o.Playlists[i].Videos = []Video{}
		}
	}
}
