// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/namesake/internal/models"

// Provider is the interface for vault file operations.
// All paths are slash-separated and relative to the vault root.
type Provider interface {
	// List returns metadata for every .md file under dir in lexical walk order.
	List(dir string) ([]models.NoteMetadata, error)
	// Stat returns metadata for the note at path.
	Stat(path string) (models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the content of path.
	Write(path string, content []byte) error
	// Move renames oldPath to newPath. It fails if newPath already exists.
	Move(oldPath, newPath string) error
}
