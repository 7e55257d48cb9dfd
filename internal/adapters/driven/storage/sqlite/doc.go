// Package sqlite stores chat transcripts in a local SQLite database.
//
// It uses the pure-Go modernc.org/sqlite driver so the binary needs no
// cgo toolchain. The transcript is append-only; turns are never edited.
package sqlite
