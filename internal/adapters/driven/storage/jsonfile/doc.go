// Package jsonfile persists the observation index as a JSON document on disk.
//
// The index is a flat array of observations, each carrying its text, its
// embedding vector and optional provenance metadata. The whole file is
// rewritten atomically on every refresh; there is no partial update path.
package jsonfile
