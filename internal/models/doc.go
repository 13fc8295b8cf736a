// Package models defines the domain entities of the mixtape playlist manager.
//
// The package contains two categories of types:
//
// 1. Account records: stored once per registered user
//   - [User] : Credentials and profile fields, keyed by username
//   - [PublicUser] : The subset of [User] that is safe to return to clients
//
// 2. Playlist records: stored once per playlist owner
//   - [Owner] : A username and that user's ordered playlists
//   - [Playlist] : A named, ordered list of videos
//   - [Video] : A remote video reference or an uploaded MP3 track
//
// Every stored record implements [Record], which supplies the storage key and validation used by the repositories.
package models
