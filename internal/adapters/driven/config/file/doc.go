// Package file implements file-based configuration and prompt storage.
//
// Configuration lives in a TOML file under the recall config directory
// (~/.recall by default). Prompt templates live alongside it as plain
// text files the user can edit.
package file
