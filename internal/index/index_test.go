package index

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/starford/namesake/internal/models"
	"github.com/starford/namesake/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "namesake-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func row(path string) NoteRow {
	meta := models.NoteMetadata{
		Path:      path,
		Title:     models.TitleFromPath(path),
		Checksum:  "cs-" + path,
		UpdatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	return NewNoteRow(meta, []byte("body"))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
}

func TestNewNoteRow(t *testing.T) {
	meta := models.NoteMetadata{Path: "a/Мама мыла раму.md", Title: "Мама мыла раму", Checksum: "x"}
	r := NewNoteRow(meta, []byte("привет"))
	if r.Chars != 6 {
		t.Errorf("chars = %d, want 6 runes", r.Chars)
	}
	if !slices.Equal(r.Tokens, []string{"мама", "мыла", "раму"}) {
		t.Errorf("tokens = %q", r.Tokens)
	}
}

func TestUpsertNote_Stored(t *testing.T) {
	db := testDB(t)
	in := row("notes/Weekly Plan.md")
	if err := db.UpsertNote(in); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	got, err := findRow(db, "notes/Weekly Plan.md")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if got == nil {
		t.Fatal("note not found")
	}
	if got.Title != "Weekly Plan" || got.Chars != 4 || !slices.Equal(got.Tokens, []string{"weekly", "plan"}) {
		t.Errorf("row = %+v", got)
	}
	if !got.UpdatedAt.Equal(in.UpdatedAt) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, in.UpdatedAt)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	r := row("up.md")
	_ = db.UpsertNote(r)
	r.Checksum = "2"
	r.Chars = 42
	_ = db.UpsertNote(r)

	cs, _ := db.GetChecksum("up.md")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	got, _ := findRow(db, "up.md")
	if got.Chars != 42 {
		t.Errorf("chars = %d, want 42", got.Chars)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(row("del.md"))

	if err := db.DeleteNote("del.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	if err := db.DeleteNote("del.md"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestListNotes_OrderedByPath(t *testing.T) {
	db := testDB(t)
	for _, p := range []string{"c.md", "a.md", "b/x.md"} {
		_ = db.UpsertNote(row(p))
	}
	rows, err := db.ListNotes()
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	var paths []string
	for _, r := range rows {
		paths = append(paths, r.Path)
	}
	if !slices.Equal(paths, []string{"a.md", "b/x.md", "c.md"}) {
		t.Errorf("paths = %v", paths)
	}
}

func TestNotesWithTokenCount(t *testing.T) {
	db := testDB(t)
	for _, p := range []string{"one two.md", "three.md", "four five.md", "2024.md"} {
		_ = db.UpsertNote(row(p))
	}

	rows, err := db.NotesWithTokenCount(2)
	if err != nil {
		t.Fatalf("NotesWithTokenCount: %v", err)
	}
	if len(rows) != 2 || rows[0].Path != "four five.md" || rows[1].Path != "one two.md" {
		t.Errorf("rows = %+v", rows)
	}

	rows, _ = db.NotesWithTokenCount(0)
	if len(rows) != 1 || rows[0].Path != "2024.md" {
		t.Errorf("zero-token rows = %+v", rows)
	}
}

func TestSync(t *testing.T) {
	db := testDB(t)
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Write("keep.md", []byte("keep"))
	_ = store.Write("sub/new.md", []byte("new"))
	_ = db.UpsertNote(row("gone.md"))

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	all, _ := db.AllChecksums()
	if len(all) != 2 {
		t.Fatalf("indexed = %v, want keep.md and sub/new.md", all)
	}
	if _, ok := all["gone.md"]; ok {
		t.Error("stale entry survived sync")
	}
	if _, ok := all["sub/new.md"]; !ok {
		t.Error("sub/new.md not indexed")
	}
}

func TestIndexPath(t *testing.T) {
	db := testDB(t)
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Write("Hello World.md", []byte("hi"))

	if err := IndexPath(db, store, "Hello World.md"); err != nil {
		t.Fatalf("IndexPath: %v", err)
	}
	got, _ := findRow(db, "Hello World.md")
	if got == nil || got.Chars != 2 || got.Title != "Hello World" {
		t.Errorf("row = %+v", got)
	}
	if err := IndexPath(db, store, "missing.md"); err == nil {
		t.Error("expected error for missing note")
	}
}

// findRow returns the indexed row for path, or nil.
func findRow(db *DB, path string) (*NoteRow, error) {
	rows, err := db.ListNotes()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Path == path {
			return &rows[i], nil
		}
	}
	return nil, nil
}

func TestIndexPath_SkipsUnchanged(t *testing.T) {
	db := testDB(t)
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write("same.md", []byte("abc")); err != nil {
		t.Fatal(err)
	}
	if err := IndexPath(db, store, "same.md"); err != nil {
		t.Fatal(err)
	}
	// Tamper with the row; an unchanged file must not rewrite it.
	row, _ := findRow(db, "same.md")
	row.Chars = 99
	if err := db.UpsertNote(*row); err != nil {
		t.Fatal(err)
	}
	if err := IndexPath(db, store, "same.md"); err != nil {
		t.Fatal(err)
	}
	if got, _ := findRow(db, "same.md"); got.Chars != 99 {
		t.Errorf("chars = %d, unchanged note was reindexed", got.Chars)
	}
}
