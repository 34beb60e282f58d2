package index

import (
	"fmt"
	"log/slog"

	"github.com/starford/namesake/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	indexed := 0
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := db.UpsertNote(NewNoteRow(m, data)); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		indexed++
		logger.Debug("sync: indexed", slog.String("path", m.Path))
	}

	removed := 0
	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteNote(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		removed++
		logger.Debug("sync: removed stale", slog.String("path", p))
	}

	logger.Info("sync: done",
		slog.Int("notes", len(metas)),
		slog.Int("indexed", indexed),
		slog.Int("removed", removed))
	return nil
}

// IndexPath re-reads the note at path and upserts it unless the stored
// checksum already matches.
func IndexPath(db NoteIndex, store storage.Provider, path string) error {
	meta, err := store.Stat(path)
	if err != nil {
		return err
	}
	stored, err := db.GetChecksum(meta.Path)
	if err != nil {
		return err
	}
	if stored == meta.Checksum {
		return nil
	}
	data, err := store.Read(path)
	if err != nil {
		return err
	}
	if err := db.UpsertNote(NewNoteRow(meta, data)); err != nil {
		return fmt.Errorf("index: %s: %w", path, err)
	}
	return nil
}
