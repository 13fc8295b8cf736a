package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/models"
)

var (
	headerStyle = NewBold("#7D56F4").Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = NewStyle("#626262")
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// UsersTable lists registered users.
func UsersTable(users []models.PublicUser) string {
	t := newTable("Username", "Full Name", "Image")
	for _, u := range users {
		t.Row(u.Username, u.FullName, u.ImageURL)
	}
	return t.Render()
}

// PlaylistsTable lists playlists with their track counts.
func PlaylistsTable(playlists []models.Playlist) string {
	t := newTable("#", "Name", "Tracks")
	for i, p := range playlists {
		t.Row(strconv.Itoa(i+1), p.Name, strconv.Itoa(len(p.Videos)))
	}
	return t.Render()
}

// VideosTable lists the videos of one playlist.
func VideosTable(videos []models.Video) string {
	t := newTable("ID", "Title", "Channel", "Type", "Rating")
	for _, v := range videos {
		t.Row(v.VideoID, v.Title, v.Channel, v.Type, formatter.FormatRating(v.Rating))
	}
	return t.Render()
}
