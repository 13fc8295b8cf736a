// Package repositories implements persistence for users and playlist owners.
//
// Two interchangeable backends are provided behind the [UserStore] and [OwnerStore] interfaces:
//
//   - JSON files: [UserFile] and [OwnerFile] keep each collection in one pretty-printed document
//     that is read in full and rewritten in full on every mutation, see [Document].
//   - SQLite: [UserRepository] and [OwnerRepository] store one row per user or owner, with an owner's
//     playlists held as a JSON column.
//
// [Open] selects the backend from [shared.Config]. Absent keys are reported with [ErrRecordNotFound].
package repositories
