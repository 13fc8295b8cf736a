// Package ui renders CLI output with lipgloss.
//
// [Palette] styles status lines (titles, success, errors, hints). The table helpers lay out users, playlists
// and videos with lipgloss/table for the users and playlists commands.
package ui
