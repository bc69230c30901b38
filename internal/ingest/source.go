package ingest

import "context"

// Source is implemented by each spreadsheet backend (Google Sheets API,
// local CSV export). A source fetches the raw grid; all mapping and
// coercion happens downstream in the Mapper.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (header []string, rows [][]string, err error)
}
