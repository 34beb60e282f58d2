// Package noteservice implements the vault operations: finding notes with
// the same title words, fixing image embeds, and bulk copy-and-rename.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/starford/namesake/internal/apperr"
	"github.com/starford/namesake/internal/embeds"
	"github.com/starford/namesake/internal/index"
	"github.com/starford/namesake/internal/models"
	"github.com/starford/namesake/internal/storage"
	"github.com/starford/namesake/internal/titlematch"
)

// ModifiedLayout formats note modification times for display.
const ModifiedLayout = time.DateTime

// SimilarNote is one note whose title has the same words as the reference.
type SimilarNote struct {
	Path       string    `json:"path"`
	Title      string    `json:"title"`
	Chars      int       `json:"chars"`
	ModifiedAt time.Time `json:"modified_at"`
	Modified   string    `json:"modified"`
}

// SimilarResult is the reference note together with its namesakes.
type SimilarResult struct {
	Note    models.NoteMetadata `json:"note"`
	Similar []SimilarNote       `json:"similar"`
}

// FixResult describes an image-link rewrite of one note.
type FixResult struct {
	Path    string         `json:"path"`
	Changed bool           `json:"changed"`
	Embeds  []embeds.Embed `json:"embeds"`
}

// CopyResult is the outcome of copying content into one target.
type CopyResult struct {
	Target  string `json:"target"`
	NewPath string `json:"new_path,omitempty"`
	Copied  bool   `json:"copied"`
	Renamed bool   `json:"renamed"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the target was both overwritten and renamed.
func (r CopyResult) OK() bool { return r.Copied && r.Renamed }

// CopyReport summarises a bulk copy-and-rename run.
type CopyReport struct {
	OperationID string       `json:"operation_id"`
	Source      string       `json:"source"`
	Results     []CopyResult `json:"results"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
}

// Service coordinates storage and index operations.
type Service struct {
	store        storage.Provider
	db           index.NoteIndex
	notifier     Notifier
	logger       *slog.Logger
	skipUntitled bool
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets where user-facing notices go.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithSkipUntitled makes titles without any letters match nothing.
func WithSkipUntitled(skip bool) Option {
	return func(s *Service) { s.skipUntitled = skip }
}

// NewService creates a new note service.
func NewService(store storage.Provider, db index.NoteIndex, opts ...Option) *Service {
	s := &Service{
		store:    store,
		db:       db,
		notifier: Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Note returns the metadata of the note at path.
func (s *Service) Note(_ context.Context, notePath string) (models.NoteMetadata, error) {
	if notePath == "" {
		return models.NoteMetadata{}, apperr.ErrNoActiveNote
	}
	if !models.IsNote(notePath) {
		return models.NoteMetadata{}, fmt.Errorf("%s: %w", notePath, apperr.ErrNotFound)
	}
	meta, err := s.store.Stat(notePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NoteMetadata{}, fmt.Errorf("%s: %w", notePath, apperr.ErrNotFound)
		}
		return models.NoteMetadata{}, err
	}
	return meta, nil
}

// FindSimilar returns the notes whose titles hold the same words as the
// title of the note at notePath, ordered by path.
func (s *Service) FindSimilar(ctx context.Context, notePath string) (*SimilarResult, error) {
	ref, err := s.Note(ctx, notePath)
	if err != nil {
		return nil, err
	}

	tokens := titlematch.Tokenize(ref.Title)
	result := &SimilarResult{Note: ref, Similar: []SimilarNote{}}
	if len(tokens) == 0 && s.skipUntitled {
		return result, nil
	}

	candidates, err := s.db.NotesWithTokenCount(len(tokens))
	if err != nil {
		return nil, err
	}
	for _, row := range titlematch.Find(ref, candidates) {
		result.Similar = append(result.Similar, SimilarNote{
			Path:       row.Path,
			Title:      row.Title,
			Chars:      row.Chars,
			ModifiedAt: row.UpdatedAt,
			Modified:   row.UpdatedAt.Local().Format(ModifiedLayout),
		})
	}

	s.logger.Debug("similar notes found",
		slog.String("path", ref.Path),
		slog.Int("tokens", len(tokens)),
		slog.Int("candidates", len(candidates)),
		slog.Int("matches", len(result.Similar)))
	return result, nil
}

// NoteSummary is an indexed note with the words its title is compared by.
type NoteSummary struct {
	Path     string   `json:"path"`
	Title    string   `json:"title"`
	Words    []string `json:"words"`
	Chars    int      `json:"chars"`
	Modified string   `json:"modified"`
}

// ListNotes returns every indexed note ordered by path.
func (s *Service) ListNotes(_ context.Context) ([]NoteSummary, error) {
	rows, err := s.db.ListNotes()
	if err != nil {
		return nil, err
	}
	out := make([]NoteSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, NoteSummary{
			Path:     row.Path,
			Title:    row.Title,
			Words:    row.Tokens,
			Chars:    row.Chars,
			Modified: row.UpdatedAt.Local().Format(ModifiedLayout),
		})
	}
	return out, nil
}

// PreviewImageLinks lists the embeds FixImageLinks would rewrite without
// touching the note.
func (s *Service) PreviewImageLinks(ctx context.Context, notePath string) (*FixResult, error) {
	data, err := s.readNote(ctx, notePath)
	if err != nil {
		return nil, err
	}
	found := embeds.Find(string(data))
	return &FixResult{Path: notePath, Changed: false, Embeds: found}, nil
}

// FixImageLinks rewrites timestamped image embeds of the note at notePath
// into their canonical pasted-image form. The note is only written when
// something changed.
func (s *Service) FixImageLinks(ctx context.Context, notePath string) (*FixResult, error) {
	data, err := s.readNote(ctx, notePath)
	if err != nil {
		return nil, err
	}

	content := string(data)
	found := embeds.Find(content)
	updated, changed := embeds.Rewrite(content)
	if !changed {
		s.notifier.Notify(LevelInfo, "No image links found or nothing to replace.")
		return &FixResult{Path: notePath, Embeds: found}, nil
	}

	if err := s.store.Write(notePath, []byte(updated)); err != nil {
		return nil, err
	}
	s.reindex(notePath)

	s.logger.Info("image links updated",
		slog.String("path", notePath),
		slog.Int("embeds", len(found)))
	s.notifier.Notify(LevelInfo, "Image links updated.")
	return &FixResult{Path: notePath, Changed: true, Embeds: found}, nil
}

// CopyContent overwrites every target with the source note's content and
// renames each target after the source, keeping it in its own folder.
//
// Targets are processed one by one in the given order. A failure on one
// target is reported and the loop moves on; nothing is rolled back. When
// targets is empty, the similar notes of the source are used.
func (s *Service) CopyContent(ctx context.Context, source string, targets []string) (*CopyReport, error) {
	src, err := s.Note(ctx, source)
	if err != nil {
		return nil, err
	}
	content, err := s.store.Read(src.Path)
	if err != nil {
		return nil, err
	}

	if len(targets) == 0 {
		similar, err := s.FindSimilar(ctx, src.Path)
		if err != nil {
			return nil, err
		}
		for _, n := range similar.Similar {
			targets = append(targets, n.Path)
		}
	}

	report := &CopyReport{
		OperationID: uuid.NewString(),
		Source:      src.Path,
		Results:     []CopyResult{},
	}
	logger := s.logger.With(
		slog.String("operation_id", report.OperationID),
		slog.String("source", src.Path))
	logger.Info("copy content started", slog.Int("targets", len(targets)))

	for _, target := range targets {
		if path.Clean(target) == src.Path {
			continue
		}
		res := s.copyInto(ctx, logger, src, content, target)
		if res.OK() {
			report.Succeeded++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, res)
	}

	logger.Info("copy content finished",
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (s *Service) copyInto(ctx context.Context, logger *slog.Logger, src models.NoteMetadata, content []byte, target string) CopyResult {
	res := CopyResult{Target: target}

	fail := func(what string, err error) CopyResult {
		res.Error = err.Error()
		logger.Warn(what, slog.String("target", target), slog.String("error", err.Error()))
		return res
	}

	meta, err := s.Note(ctx, target)
	if err != nil {
		s.notifier.Notify(LevelError, fmt.Sprintf("Failed to update content: %s", err))
		return fail("copy content: target unavailable", err)
	}
	// meta.Path is the cleaned vault path of the target.
	if err := s.store.Write(meta.Path, content); err != nil {
		s.notifier.Notify(LevelError, fmt.Sprintf("Failed to update content: %s", err))
		return fail("copy content: write failed", err)
	}
	res.Copied = true
	s.reindex(meta.Path)

	newPath := path.Join(path.Dir(meta.Path), src.Title+models.NoteExt)
	if newPath != meta.Path {
		if err := s.store.Move(meta.Path, newPath); err != nil {
			s.notifier.Notify(LevelError, fmt.Sprintf("Failed to rename note: %s", err))
			return fail("copy content: rename failed", err)
		}
		if err := s.db.DeleteNote(meta.Path); err != nil {
			logger.Warn("copy content: drop old index entry failed", slog.String("target", target), slog.String("error", err.Error()))
		}
		s.reindex(newPath)
	}
	res.Renamed = true
	res.NewPath = newPath

	logger.Info("copy content: target done", slog.String("target", target), slog.String("new_path", newPath))
	s.notifier.Notify(LevelInfo, fmt.Sprintf("Content copied and note renamed to %s", newPath))
	return res
}

func (s *Service) readNote(ctx context.Context, notePath string) ([]byte, error) {
	if _, err := s.Note(ctx, notePath); err != nil {
		return nil, err
	}
	return s.store.Read(notePath)
}

// reindex refreshes the index entry of notePath. Failures only affect
// later searches, so they are logged rather than returned.
func (s *Service) reindex(notePath string) {
	if err := index.IndexPath(s.db, s.store, notePath); err != nil {
		s.logger.Warn("reindex failed", slog.String("path", notePath), slog.String("error", err.Error()))
	}
}
