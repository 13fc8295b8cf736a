// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/mixtape/internal/models"
)

// ErrStore is returned by every method of [FailingStore].
var ErrStore = errors.New("store unavailable")

// MockRecorder counts domain events; it satisfies services.Recorder.
type MockRecorder struct {
	mu            sync.Mutex
	Registrations int
	Logins        int
	FailedLogins  int
	Playlists     int
	Uploads       int
}

func (m *MockRecorder) Registered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Registrations++
}

func (m *MockRecorder) LoggedIn(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.Logins++
	} else {
		m.FailedLogins++
	}
}

func (m *MockRecorder) PlaylistCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Playlists++
}

func (m *MockRecorder) TrackUploaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads++
}

// FailingStore is an owner store whose every call fails with [ErrStore].
type FailingStore struct{}

func (FailingStore) Get(ctx context.Context, username string) (*models.Owner, error) {
	return nil, ErrStore
}
func (FailingStore) Put(ctx context.Context, owner *models.Owner) error { return ErrStore }
func (FailingStore) Delete(ctx context.Context, username string) error  { return ErrStore }
func (FailingStore) List(ctx context.Context) ([]models.Owner, error)   { return nil, ErrStore }

// FailingUsers is a user store whose every call fails with [ErrStore].
type FailingUsers struct{}

func (FailingUsers) Get(ctx context.Context, username string) (*models.User, error) {
	return nil, ErrStore
}
func (FailingUsers) Create(ctx context.Context, user *models.User) error { return ErrStore }
func (FailingUsers) List(ctx context.Context) ([]models.User, error)     { return nil, ErrStore }

// FixedClock returns a clock that advances by one millisecond per call, starting at start.
func FixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Millisecond)
		return now
	}
}

// SampleVideo returns a remote video with the given ID.
func SampleVideo(id string) models.Video {
	return models.Video{
		VideoID:   id,
		Title:     "Video " + id,
		Channel:   "Channel",
		Type:      models.VideoTypeYouTube,
		URL:       "https://www.youtube.com/watch?v=" + id,
		Thumbnail: "https://i.ytimg.com/vi/" + id + "/default.jpg",
	}
}

// MultipartFile builds a multipart body holding a single file part and returns it with its content type.
func MultipartFile(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return body, w.FormDataContentType()
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FCloser simulates a failure when reading a request or response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
