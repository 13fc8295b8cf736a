// Package tasks runs long playlist operations with progress reporting.
//
// # Bulk export
//
// [Exporter.BulkExport] writes every playlist a user owns into one directory, one file per playlist, using a fixed-size
// worker pool. Failures are per playlist: one bad write does not stop the others, and the run ends with an
// export_manifest.json summarising what was written.
//
// # Progress Reporting
//
// Operations take an optional send-only [ProgressUpdate] channel. Sends never block; when the channel is full the update is
// dropped, so a slow reader cannot stall an export.
package tasks
