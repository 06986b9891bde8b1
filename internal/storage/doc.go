// Package storage keeps the client's local SQLite database: the index of
// downloaded audio files and the page state screens persist between runs.
// Both are wiped when the user signs out.
package storage
