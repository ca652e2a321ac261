// Package tasks implements the Drive to Photos upload engine.
//
// The core abstraction is [SyncEngine], which walks a Drive folder tree,
// uploads eligible media files, and files each folder's uploads into a Photos
// album named after the folder path. A durable ledger makes repeated runs
// idempotent: files recorded as imported or skipped are never transferred
// again.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
