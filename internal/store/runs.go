package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/valpere/pdftran/internal"
)

// CreateRun records the start of a run and returns its id. A run without an
// ID gets a fresh UUID.
func (s *Store) CreateRun(ctx context.Context, run internal.TranslationRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = internal.RunRunning
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_runs (id, input_file, output_file, source_lang, target_lang, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputFile, run.OutputFile, run.SourceLang, run.TargetLang, string(run.Status), run.StartedAt)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// CompleteRun stores the final status, counts and error of a run.
func (s *Store) CompleteRun(ctx context.Context, run internal.TranslationRun) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE translation_runs SET
			source_lang = ?, status = ?,
			translated = ?, cached = ?, glossary = ?, skipped = ?, fallback = ?,
			pages = ?, error = ?, finished_at = ?
		 WHERE id = ?`,
		run.SourceLang, string(run.Status),
		run.Counts.Translated, run.Counts.Cached, run.Counts.Glossary, run.Counts.Skipped, run.Counts.Fallback,
		run.Pages, run.Error, run.FinishedAt,
		run.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]internal.TranslationRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_file, output_file, source_lang, target_lang, status,
			translated, cached, glossary, skipped, fallback, pages, error, started_at, finished_at
		 FROM translation_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []internal.TranslationRun
	for rows.Next() {
		var r internal.TranslationRun
		var status string
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.InputFile, &r.OutputFile, &r.SourceLang, &r.TargetLang, &status,
			&r.Counts.Translated, &r.Counts.Cached, &r.Counts.Glossary, &r.Counts.Skipped, &r.Counts.Fallback,
			&r.Pages, &r.Error, &r.StartedAt, &finished); err != nil {
			return nil, err
		}
		r.Status = internal.RunStatus(status)
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
