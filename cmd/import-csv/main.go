package main

import (
	"context"
	"flag"
	"log"
	"time"

	"scholarhub/internal/ingest"
	"scholarhub/pkg/database"
)

func main() {
	var (
		in      = flag.String("in", "data/scholarships.csv", "input CSV path (sheet export)")
		columns = flag.String("columns", "configs/columns.yaml", "column map path")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	cm, err := ingest.LoadColumnMap(*columns)
	if err != nil {
		log.Fatalf("load column map: %v", err)
	}

	pipeline := ingest.NewPipeline(db, ingest.NewMapper(cm))
	rep, err := pipeline.Run(ctx, ingest.NewCSVSource(*in))
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	log.Printf("✅ imported %d, skipped %d, failed %d from %s", rep.Imported, rep.Skipped, rep.Failed, *in)
}
