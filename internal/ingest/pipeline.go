package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Pipeline runs one batch synchronization: fetch the sheet, gate on
// production status, coerce, upsert. One bad row never stops the batch;
// a failed fetch aborts it with the store untouched.
type Pipeline struct {
	DB     *sql.DB
	Mapper *Mapper
}

func NewPipeline(db *sql.DB, mapper *Mapper) *Pipeline {
	return &Pipeline{DB: db, Mapper: mapper}
}

type RowError struct {
	Row int    `json:"row"` // 1-based data row number (header excluded)
	Err string `json:"error"`
}

type Report struct {
	RunID      string     `json:"run_id"`
	Source     string     `json:"source"`
	Imported   int        `json:"imported"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	RowErrors  []RowError `json:"row_errors,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

func (p *Pipeline) Run(ctx context.Context, src Source) (*Report, error) {
	rep := &Report{
		RunID:     uuid.NewString(),
		Source:    src.Name(),
		StartedAt: time.Now().UTC(),
	}

	header, rows, err := src.Fetch(ctx)
	if err != nil {
		// source failure aborts the whole run; the store keeps its
		// last-good state and the read path is unaffected
		rep.FinishedAt = time.Now().UTC()
		_ = p.recordRun(ctx, rep, err)
		return rep, fmt.Errorf("fetch from %s: %w", src.Name(), err)
	}

	p.Mapper.BindHeader(header)

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		rep.FinishedAt = time.Now().UTC()
		_ = p.recordRun(ctx, rep, err)
		return rep, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := prepareUpsert(ctx, tx)
	if err != nil {
		rep.FinishedAt = time.Now().UTC()
		_ = p.recordRun(ctx, rep, err)
		return rep, err
	}
	defer stmt.Close()

	for i, row := range rows {
		if !p.Mapper.Ready(row) {
			rep.Skipped++
			continue
		}

		rec, err := p.Mapper.MapRow(row)
		if err != nil {
			rep.Failed++
			rep.RowErrors = append(rep.RowErrors, RowError{Row: i + 1, Err: err.Error()})
			log.Printf("[ingest] row %d: %v", i+1, err)
			continue
		}

		if err := execUpsert(ctx, stmt, rec); err != nil {
			rep.Failed++
			rep.RowErrors = append(rep.RowErrors, RowError{Row: i + 1, Err: err.Error()})
			log.Printf("[ingest] row %d: %v", i+1, err)
			continue
		}
		rep.Imported++
	}

	if err := tx.Commit(); err != nil {
		rep.FinishedAt = time.Now().UTC()
		_ = p.recordRun(ctx, rep, err)
		return rep, fmt.Errorf("commit: %w", err)
	}

	rep.FinishedAt = time.Now().UTC()
	if err := p.recordRun(ctx, rep, nil); err != nil {
		log.Printf("[ingest] record run: %v", err)
	}

	log.Printf("[ingest] %s run %s: imported=%d skipped=%d failed=%d",
		rep.Source, rep.RunID, rep.Imported, rep.Skipped, rep.Failed)
	return rep, nil
}

func (p *Pipeline) recordRun(ctx context.Context, rep *Report, runErr error) error {
	var errText sql.NullString
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO ingest_runs (id, source, imported, skipped, failed, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rep.RunID, rep.Source, rep.Imported, rep.Skipped, rep.Failed, errText,
		rep.StartedAt.Format(time.RFC3339), rep.FinishedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert ingest run: %w", err)
	}
	return nil
}
