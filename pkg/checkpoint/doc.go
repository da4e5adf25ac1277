// Package checkpoint persists labeling progress while a session runs.
//
// The record table is written back to its source file:
//   - every Interval rows (by 1-based row position, default 10)
//   - when the user quits with "0"
//   - once more when every row is labeled
//
// Saves go through table.Store, whose CSV implementation replaces the file
// atomically. A failed save is surfaced as a storage_write error and ends the
// session; work up to the previous successful checkpoint stays on disk.
package checkpoint
