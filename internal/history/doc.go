// Package history retains recently generated QR codes in SQLite, bounded to
// a configurable number of entries, and notifies subscribers of changes.
package history
