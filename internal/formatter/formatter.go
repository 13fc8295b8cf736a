// package formatter provides functions to export playlist data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ParseFormat accepts a format name or a common alias ("markdown", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Export renders playlist in format.
func Export(playlist *models.Playlist, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(playlist)
	case FormatMarkdown:
		return ExportToMarkdown(playlist)
	case FormatText:
		return ExportToText(playlist)
	case FormatJSON:
		return ExportToJSON(playlist)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToCSV converts a Playlist to CSV format with columns: ID, Title, Channel, Type, Source, Rating
func ExportToCSV(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Channel", "Type", "Source", "Rating"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, video := range playlist.Videos {
		record := []string{
			video.VideoID,
			video.Title,
			video.Channel,
			video.Type,
			Source(video),
			FormatRating(video.Rating),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Playlist to Markdown, linking each remote video and showing its thumbnail
func ExportToMarkdown(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", playlist.Name)
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(playlist.Videos))

	buf.WriteString("## Tracks\n\n")
	for i, video := range playlist.Videos {
		title := video.Title
		if src := Source(video); src != "" {
			title = fmt.Sprintf("[%s](%s)", video.Title, src)
		}
		fmt.Fprintf(&buf, "%d. %s - %s [%s]\n", i+1, video.Channel, title, FormatRating(video.Rating))
		if video.Thumbnail != "" {
			fmt.Fprintf(&buf, "   ![%s](%s)\n", video.VideoID, video.Thumbnail)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Playlist to plain text format
func ExportToText(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", playlist.Name)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(playlist.Videos))

	for i, video := range playlist.Videos {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, video.Channel, video.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes the playlist exactly as it is stored, indented with two spaces
func ExportToJSON(playlist *models.Playlist) ([]byte, error) {
	data, err := json.MarshalIndent(playlist, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode playlist: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport renders playlist in format and writes it to path.
//
// Defaults to {playlist name}.{format} in the working directory.
func WriteExport(playlist *models.Playlist, format Format, path string) (string, error) {
	if path == "" {
		path = SafeFilename(playlist.Name) + "." + string(format)
	}

	data, err := Export(playlist, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// Source returns the uploaded file path or remote URL of a video.
func Source(video models.Video) string {
	if video.File != "" {
		return video.File
	}
	return video.URL
}

// FormatRating prints ratings without trailing zeros (4, 4.5, -1).
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// SafeFilename replaces path separators and other awkward characters so name can be used as a file name.
func SafeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "playlist"
	}

	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
