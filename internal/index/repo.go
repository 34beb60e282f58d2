package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/starford/namesake/internal/models"
	"github.com/starford/namesake/internal/titlematch"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Title     string
	Tokens    []string
	Checksum  string
	Chars     int
	UpdatedAt time.Time
}

// NotePath implements titlematch.Titled.
func (r NoteRow) NotePath() string { return r.Path }

// NoteTitle implements titlematch.Titled.
func (r NoteRow) NoteTitle() string { return r.Title }

// NewNoteRow builds the index row for a note from its metadata and content.
func NewNoteRow(meta models.NoteMetadata, data []byte) NoteRow {
	return NoteRow{
		Path:      meta.Path,
		Title:     meta.Title,
		Tokens:    titlematch.Tokenize(meta.Title),
		Checksum:  meta.Checksum,
		Chars:     utf8.RuneCount(data),
		UpdatedAt: meta.UpdatedAt,
	}
}

const selectColumns = `path, title, tokens, checksum, chars, updated_at`

// UpsertNote inserts or replaces a note row.
func (db *DB) UpsertNote(n NoteRow) error {
	tokens := n.Tokens
	if tokens == nil {
		tokens = []string{}
	}
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("index: encode tokens: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO notes (path, title, tokens, token_count, checksum, chars, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title       = excluded.title,
			tokens      = excluded.tokens,
			token_count = excluded.token_count,
			checksum    = excluded.checksum,
			chars       = excluded.chars,
			updated_at  = excluded.updated_at
	`, n.Path, n.Title, string(tokensJSON), len(tokens), n.Checksum, n.Chars, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}
	return nil
}

// DeleteNote removes a note row. Deleting an unknown path is not an error.
func (db *DB) DeleteNote(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM notes WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// ListNotes returns every indexed note ordered by path.
func (db *DB) ListNotes() ([]NoteRow, error) {
	rows, err := db.conn.Query(`SELECT ` + selectColumns + ` FROM notes ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: list notes: %w", err)
	}
	return scanRows(rows)
}

// NotesWithTokenCount returns the notes whose titles have exactly n tokens,
// ordered by path. Only these can ever be similar to an n-token title.
func (db *DB) NotesWithTokenCount(n int) ([]NoteRow, error) {
	rows, err := db.conn.Query(`SELECT `+selectColumns+` FROM notes WHERE token_count = ? ORDER BY path`, n)
	if err != nil {
		return nil, fmt.Errorf("index: notes with token count: %w", err)
	}
	return scanRows(rows)
}

// AllChecksums returns path → checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

func scanRows(rows *sql.Rows) ([]NoteRow, error) {
	defer rows.Close()
	var out []NoteRow
	for rows.Next() {
		var (
			r      NoteRow
			tokens string
		)
		if err := rows.Scan(&r.Path, &r.Title, &tokens, &r.Checksum, &r.Chars, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("index: scan note: %w", err)
		}
		if err := json.Unmarshal([]byte(tokens), &r.Tokens); err != nil {
			return nil, fmt.Errorf("index: decode tokens for %s: %w", r.Path, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
