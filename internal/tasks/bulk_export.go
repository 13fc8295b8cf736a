package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/models"
)

const (
	DefaultWorkers = 4
	MaxWorkers     = 10
	ManifestFile   = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format for every playlist
	OutputDir  string           // Base output directory (default: <username>_export_<epoch>)
	NumWorkers int              // Concurrent writers (default: 4, capped at 10)
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	Index        int    `json:"index"`
	PlaylistName string `json:"playlist"`
	Tracks       int    `json:"tracks"`
	File         string `json:"file,omitempty"`
	Success      bool   `json:"success"`
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// BulkExportResult summarises a bulk export run.
type BulkExportResult struct {
	Username          string                 `json:"username"`
	Format            formatter.Format       `json:"format"`
	ExportedAt        time.Time              `json:"exported_at"`
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

type exportJob struct {
	index    int
	playlist models.Playlist
	path     string
}

// BulkExport writes every playlist owned by username into opts.OutputDir.
//
// Results are ordered as the playlists are stored, regardless of which worker finished first. A user without playlists
// produces an empty manifest and no error.
func (e *Exporter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	username string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("%s_export_%d", formatter.SafeFilename(username), time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}

	sendProgress(prog, fetchPlaylistsUpdate(username))
	playlists, err := e.source.ListPlaylists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlists: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Username:        username,
		Format:          opts.Format,
		ExportedAt:      time.Now().UTC(),
		TotalPlaylists:  len(playlists),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(playlists)),
	}

	jobs := make(chan exportJob, len(playlists))
	results := make(chan PlaylistExportResult, len(playlists))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts.Format)
	}

	for i, path := range exportPaths(playlists, opts) {
		jobs <- exportJob{index: i, playlist: playlists[i], path: path}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(playlists), res))
		} else {
			result.FailedExports++
			e.logger.Warn("playlist export failed", "playlist", res.PlaylistName, "error", res.Error)
			sendProgress(prog, exportFailedUpdate(completed, len(playlists), res))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Index < result.Results[j].Index
	})

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	sendProgress(prog, writeManifestUpdate(manifestPath))
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("bulk export finished",
		"user", username,
		"ok", result.SuccessfulExports,
		"failed", result.FailedExports,
		"dir", opts.OutputDir,
	)
	return result, nil
}

// exportWorker drains jobs until the channel closes or ctx is cancelled.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- PlaylistExportResult,
	format formatter.Format,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSinglePlaylist(job, format)
	}
}

func exportSinglePlaylist(j exportJob, format formatter.Format) PlaylistExportResult {
	result := PlaylistExportResult{
		Index:        j.index,
		PlaylistName: j.playlist.Name,
		Tracks:       len(j.playlist.Videos),
	}

	path, err := formatter.WriteExport(&j.playlist, format, j.path)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", format, err)
		result.ErrorMessage = result.Error.Error()
		return result
	}

	result.File = path
	result.Success = true
	return result
}

// exportPaths assigns one file per playlist, suffixing names that collide once made filesystem safe.
func exportPaths(playlists []models.Playlist, opts BulkExportOpts) []string {
	paths := make([]string, len(playlists))
	used := make(map[string]bool, len(playlists))

	for i, p := range playlists {
		base := formatter.SafeFilename(p.Name)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true
		paths[i] = filepath.Join(opts.OutputDir, name+"."+string(opts.Format))
	}
	return paths
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
