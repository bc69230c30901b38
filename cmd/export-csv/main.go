package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"scholarhub/pkg/database"
)

// Dumps the scholarships table to CSV for backup and diffing against
// the sheet. List columns export as their stored JSON text.
func main() {
	var (
		out = flag.String("out", "data/scholarships-export.csv", "output CSV path")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportScholarships(ctx, db, *out); err != nil {
		log.Fatalf("export failed: %v", err)
	}

	log.Printf("✅ exported scholarships to %s", *out)
}

func exportScholarships(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"id", "slug", "title", "provider", "provider_type",
		"state", "education_level", "categories", "gender", "courses",
		"amount_annual", "income_limit", "marks_min",
		"deadline", "status", "priority_score",
	}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, slug, title, provider, provider_type,
		       state, education_level, categories, gender, courses,
		       amount_annual, income_limit, marks_min,
		       deadline, status, priority_score
		FROM scholarships
		ORDER BY title
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, slug, title                  string
			provider, providerType           sql.NullString
			state, level, categories, gender sql.NullString
			courses                          sql.NullString
			amountAnnual, incomeLimit        sql.NullInt64
			marksMin                         sql.NullFloat64
			deadline, status                 sql.NullString
			priorityScore                    sql.NullInt64
		)

		if err := rows.Scan(&id, &slug, &title, &provider, &providerType,
			&state, &level, &categories, &gender, &courses,
			&amountAnnual, &incomeLimit, &marksMin,
			&deadline, &status, &priorityScore); err != nil {
			return err
		}

		if err := w.Write([]string{
			id, slug, title, provider.String, providerType.String,
			state.String, level.String, categories.String, gender.String, courses.String,
			nullIntStr(amountAnnual), nullIntStr(incomeLimit), nullFloatStr(marksMin),
			deadline.String, status.String, nullIntStr(priorityScore),
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func nullIntStr(n sql.NullInt64) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

func nullFloatStr(f sql.NullFloat64) string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}
