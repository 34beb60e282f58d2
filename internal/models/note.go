// Package models defines the domain types for namesake.
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
	"time"
)

// NoteExt is the file extension every vault note carries.
const NoteExt = ".md"

// NoteMetadata is a reference to a note stored in the vault.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotePath returns the vault-relative slash path.
func (m NoteMetadata) NotePath() string { return m.Path }

// NoteTitle returns the display title.
func (m NoteMetadata) NoteTitle() string { return m.Title }

// TitleFromPath derives a note title from its vault path: the basename
// without directory and without the .md extension.
func TitleFromPath(p string) string {
	return strings.TrimSuffix(path.Base(p), NoteExt)
}

// IsNote reports whether name looks like a vault note file.
func IsNote(name string) bool {
	return strings.HasSuffix(name, NoteExt)
}

// Checksum returns the hex SHA-256 of note content. The index compares it
// to skip notes that did not change.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
