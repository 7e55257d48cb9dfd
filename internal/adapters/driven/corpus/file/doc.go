// Package file sources observation text from a plain file on disk, one
// observation per line, and watches it for changes via fsnotify.
package file
