package ingest

import (
	"context"
	"database/sql"
	"fmt"
)

// Run is one row of ingest history, for the admin surface.
type Run struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}

func ListRuns(ctx context.Context, db *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, source, imported, skipped, failed, error, started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var (
			r        Run
			errText  sql.NullString
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.Imported, &r.Skipped, &r.Failed, &errText, &r.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Error = errText.String
		r.FinishedAt = finished.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs rows: %w", err)
	}
	return out, nil
}
