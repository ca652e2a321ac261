// Package models defines domain entities and persistence interfaces for the topho uploader.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [File] : A Drive file or folder with the metadata needed for classification
//   - [Album] : A Photos album with its media item count
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [SyncRun] : One invocation of the uploader, tracking counts and outcome
//
// Persistent entities implement the Model interface providing ID generation,
// timestamps, and validation. The Repository[T] interface defines standard CRUD
// operations for database access.
package models
