// Package table holds the in-memory record table and its CSV persistence.
//
// A Table keeps its header in file order and its rows as column-to-value maps.
// The CSVStore writes through a temporary file and a rename, so a crash during
// a save leaves either the previous content or the new one on disk, never a
// truncated file.
package table
