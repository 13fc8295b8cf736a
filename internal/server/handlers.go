package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
)

// Accounts is the account surface the API depends on; [services.AccountService] implements it.
type Accounts interface {
	Authenticator
	Register(ctx context.Context, in services.RegisterInput) error
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// Playlists is the playlist surface the API depends on; [services.PlaylistService] implements it.
type Playlists interface {
	ListPlaylists(ctx context.Context, username string) ([]models.Playlist, error)
	CreatePlaylist(ctx context.Context, username, name string) error
	DeletePlaylist(ctx context.Context, username, name string) error
	AddVideo(ctx context.Context, username, name string, video models.Video) error
	RemoveVideo(ctx context.Context, username, name, videoID string) error
	SetRating(ctx context.Context, username, name, videoID string, rating float64) error
	AddUploadedTrack(ctx context.Context, username, name, filename, storedPath string) (*models.Video, error)
}

// AccountHandler serves registration, login and logout.
type AccountHandler struct {
	accounts Accounts
	logger   *log.Logger
}

func NewAccountHandler(accounts Accounts, logger *log.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	OK bool `json:"ok"`
	*services.LoginResult
}

// Register handles POST /api/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.accounts.Register(r.Context(), in); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeOK(w)
}

// Login handles POST /api/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.accounts.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{OK: true, LoginResult: result})
}

// Logout handles POST /api/logout; it must run behind [RequireAuth].
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := h.accounts.Logout(r.Context(), id.Token); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeOK(w)
}

// PlaylistHandler serves the playlist routes. Every method must run behind [RequireAuth].
type PlaylistHandler struct {
	playlists Playlists
	uploads   *UploadStore
	logger    *log.Logger
}

func NewPlaylistHandler(playlists Playlists, uploads *UploadStore, logger *log.Logger) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists, uploads: uploads, logger: logger}
}

func username(r *http.Request) string {
	id, _ := IdentityFrom(r.Context())
	return id.Username
}

// List handles GET /api/playlists.
func (h *PlaylistHandler) List(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlists.ListPlaylists(r.Context(), username(r))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// Create handles POST /api/playlists.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.playlists.CreatePlaylist(r.Context(), username(r), in.Name); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeOK(w)
}

// Delete handles DELETE /api/playlists/{name}.
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.playlists.DeletePlaylist(r.Context(), username(r), r.PathValue("name")); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeOK(w)
}

// AddVideo handles POST /api/playlists/{name}/videos.
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	var video models.Video
	if err := decodeJSON(r, &video); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.playlists.AddVideo(r.Context(), username(r), r.PathValue("name"), video); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeOK(w)
}

// RemoveVideo handles DELETE /api/playlists/{name}/videos/{videoId}.
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	err := h.playlists.RemoveVideo(r.Context(), username(r), r.PathValue("name"), r.PathValue("videoId"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeOK(w)
}

// Rate handles PUT /api/playlists/{name}/videos/{videoId}/rating.
func (h *PlaylistHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Rating *float64 `json:"rating"`
	}
	if err := decodeJSON(r, &in); err != nil || in.Rating == nil {
		writeError(w, http.StatusBadRequest, "Rating must be a number")
		return
	}

	err := h.playlists.SetRating(r.Context(), username(r), r.PathValue("name"), r.PathValue("videoId"), *in.Rating)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeOK(w)
}
