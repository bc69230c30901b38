package main

import (
	"context"
	"flag"
	"log"
	"time"

	"scholarhub/internal/ingest"
	"scholarhub/pkg/database"
	"scholarhub/pkg/utils"
)

func main() {
	var (
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

	sheetCfg := utils.LoadSheetConfig()
	src := ingest.NewSheetSource(sheetCfg.SpreadsheetID, sheetCfg.Range, sheetCfg.APIKey)

	pipeline := ingest.NewPipeline(db, ingest.NewMapper(cm))
	rep, err := pipeline.Run(ctx, src)
	if err != nil {
		log.Fatalf("sheet sync failed: %v", err)
	}

	log.Printf("✅ synced sheet %s: imported %d, skipped %d, failed %d",
		sheetCfg.SpreadsheetID, rep.Imported, rep.Skipped, rep.Failed)
}
