// Package services implements the account and playlist operations of mixtape.
//
// # Account Service
//
// [AccountService] registers users, logs them in by issuing a session token and logs them out by revoking it.
// Passwords are compared in plaintext.
//
// # Playlist Service
//
// [PlaylistService] mutates one owner record per call: it loads the owner, locates the playlist or video,
// applies the change and persists the whole owner back through the [repositories.OwnerStore].
//
// # Concurrency
//
// Each service serialises its read-modify-write cycles with a mutex, so two concurrent requests can never
// both pass a uniqueness check before either has written. Concurrent creation of the same playlist yields
// exactly one success and one [shared.ErrConflict].
//
// # Error Handling
//
// Services return errors wrapping the sentinels of the shared package:
//   - [shared.ErrValidation] : missing or malformed input
//   - [shared.ErrConflict] : duplicate username, playlist or video
//   - [shared.ErrNotFound] : unknown owner, playlist or video
//   - [shared.ErrUnauthorized] : bad credentials
package services
