package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	uploadField   = "mp3"
	mp3MediaType  = "audio/mpeg"
	uploadsPrefix = "/uploads/"
)

// UploadStore places uploaded files under a directory served at /uploads/.
type UploadStore struct {
	dir      string
	maxBytes int64
}

func NewUploadStore(dir string, maxBytes int64) *UploadStore {
	return &UploadStore{dir: dir, maxBytes: maxBytes}
}

// Save copies src to a new uniquely named file and returns its public path and location on disk.
func (u *UploadStore) Save(src io.Reader) (publicPath, diskPath string, err error) {
	if err := os.MkdirAll(u.dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := shared.GenerateID() + ".mp3"
	diskPath = filepath.Join(u.dir, name)

	dst, err := os.Create(diskPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(diskPath)
		return "", "", fmt.Errorf("failed to write upload: %w", err)
	}

	return path.Join(uploadsPrefix, name), diskPath, nil
}

// Upload handles POST /api/playlists/{name}/upload with a multipart "mp3" part of type audio/mpeg.
//
// The file is stored before the playlist is looked up; it is removed again when the service rejects the track.
func (h *PlaylistHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.maxBytes)
	if err := r.ParseMultipartForm(h.uploads.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != mp3MediaType {
		writeError(w, http.StatusBadRequest, "Only MP3 files are allowed")
		return
	}

	publicPath, diskPath, err := h.uploads.Save(file)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}

	video, err := h.playlists.AddUploadedTrack(r.Context(), username(r), r.PathValue("name"), header.Filename, publicPath)
	if err != nil {
		if rmErr := os.Remove(diskPath); rmErr != nil {
			h.logger.Warn("failed to remove rejected upload", "path", diskPath, "error", rmErr)
		}
		writeServiceError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		OK    bool `json:"ok"`
		Video any  `json:"video"`
	}{OK: true, Video: video})
}

// UploadsHandler serves stored uploads as static files.
type UploadsHandler struct {
	files http.Handler
}

func NewUploadsHandler(dir string) *UploadsHandler {
	return &UploadsHandler{files: http.StripPrefix(uploadsPrefix, http.FileServer(http.Dir(dir)))}
}

func (h *UploadsHandler) Routes() []string { return []string{"GET " + uploadsPrefix} }

func (h *UploadsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}

// HealthHandler answers liveness probes.
type HealthHandler struct{}

func (HealthHandler) Routes() []string { return []string{"GET /health"} }

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
