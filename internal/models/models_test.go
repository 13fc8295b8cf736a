package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/mixtape/internal/shared"
)

func TestUser(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			user    User
			wantErr bool
		}{
			{"complete", User{"alice", "pw", "Alice A", "https://img/a.png"}, false},
			{"missing username", User{"", "pw", "Alice A", "https://img/a.png"}, true},
			{"missing password", User{"alice", "", "Alice A", "https://img/a.png"}, true},
			{"missing full name", User{"alice", "pw", "", "https://img/a.png"}, true},
			{"missing image", User{"alice", "pw", "Alice A", ""}, true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.user.Validate()
				if tt.wantErr && !errors.Is(err, shared.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				if !tt.wantErr && err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			})
		}
	})

	t.Run("Public omits password", func(t *testing.T) {
		u := User{Username: "alice", Password: "secret", FullName: "Alice", ImageURL: "x"}
		data, err := json.Marshal(u.Public())
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if strings.Contains(string(data), "secret") {
			t.Errorf("public view leaked password: %s", data)
		}
		if !strings.Contains(string(data), `"fullName":"Alice"`) {
			t.Errorf("unexpected encoding: %s", data)
		}
	})
}

func TestOwner(t *testing.T) {
	owner := NewOwner("alice")
	owner.Playlists = append(owner.Playlists, NewPlaylist("Favorites"), NewPlaylist("Chill"))

	t.Run("FindPlaylist", func(t *testing.T) {
		if i := owner.FindPlaylist("Chill"); i != 1 {
			t.Errorf("expected index 1, got %d", i)
		}
		if i := owner.FindPlaylist("chill"); i != -1 {
			t.Errorf("lookup should be case-sensitive, got %d", i)
		}
		if owner.Playlist("missing") != nil {
			t.Error("expected nil for missing playlist")
		}
	})

	t.Run("Playlist returns a live pointer", func(t *testing.T) {
		p := owner.Playlist("Favorites")
		p.Videos = append(p.Videos, Video{VideoID: "v1"})
		if owner.Playlists[0].FindVideo("v1") != 0 {
			t.Error("mutation through pointer was not visible on owner")
		}
	})

	t.Run("Validate rejects duplicate names", func(t *testing.T) {
		dup := NewOwner("bob")
		dup.Playlists = append(dup.Playlists, NewPlaylist("A"), NewPlaylist("A"))
		if err := dup.Validate(); !errors.Is(err, shared.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
		if err := (&Owner{}).Validate(); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		o := &Owner{Username: "carol", Playlists: []Playlist{{Name: "x"}}}
		o.Normalize()

		data, _ := json.Marshal(o)
		if strings.Contains(string(data), "null") {
			t.Errorf("normalized owner should not encode null: %s", data)
		}
	})
}

func TestVideoEncoding(t *testing.T) {
	v := Video{VideoID: "mp3-1", Title: "Song", Channel: LocalChannel, Type: VideoTypeMP3, File: "/uploads/a.mp3", Rating: 4.5}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	got := string(data)
	for _, want := range []string{`"videoId":"mp3-1"`, `"file":"/uploads/a.mp3"`, `"rating":4.5`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
	if strings.Contains(got, `"url"`) || strings.Contains(got, `"thumbnail"`) {
		t.Errorf("empty optional fields should be omitted: %s", got)
	}

	if err := (&Video{}).Validate(); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected ErrValidation for empty videoId, got %v", err)
	}
}
