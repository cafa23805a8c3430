// Package main provides a CLI tool that loads a material price sheet into the
// materials catalog.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"furnicost/internal/config"
	"furnicost/internal/core/tx"
	"furnicost/internal/domain/catalogs/material"
	"furnicost/internal/infrastructure/numerator"
	"furnicost/internal/infrastructure/storage/postgres"
	"furnicost/internal/infrastructure/storage/postgres/catalog_repo"
	"furnicost/internal/infrastructure/storage/postgres/migrations"
	"furnicost/internal/infrastructure/xlsx"
	"furnicost/pkg/logger"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to a YAML config file")
		sheet      = pflag.StringP("sheet", "s", "", "sheet name (default: active sheet)")
		dryRun     = pflag.Bool("dry-run", false, "parse the file and report without writing")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] FILE.xlsx\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)

	f, err := os.Open(pflag.Arg(0))
	if err != nil {
		log.Fatalw("failed to open file", "error", err)
	}
	defer f.Close()

	if *dryRun {
		if err := parseOnly(f, *sheet, os.Stdout); err != nil {
			log.Fatalw("failed to parse sheet", "error", err)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if cfg.Postgres.DSN == "" {
		log.Fatal("postgres.dsn (FURNICOST_POSTGRES_DSN) is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Postgres.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if cfg.Postgres.Migrate {
		if err := migrations.Up(ctx, pool.Pool); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
	}

	txm := postgres.NewTxManager(pool)
	ctx = tx.WithManager(ctx, txm)

	svc := material.NewService(catalog_repo.NewMaterialRepo(txm), numerator.New(pool))

	report, err := xlsx.ImportMaterials(ctx, f, *sheet, svc)
	if err != nil {
		log.Fatalw("import failed", "error", err)
	}

	if err := printJSON(os.Stdout, report); err != nil {
		log.Fatalw("failed to print report", "error", err)
	}
	if len(report.Failed) > 0 {
		os.Exit(3)
	}
}

// parseOnly reports what an import would do without touching the database.
func parseOnly(r io.Reader, sheet string, w io.Writer) error {
	rows, failed, err := xlsx.ParseMaterials(r, sheet)
	if err != nil {
		return err
	}

	type preview struct {
		Line  int    `json:"line"`
		Name  string `json:"name"`
		Unit  string `json:"unit"`
		Price string `json:"price"`
	}
	out := struct {
		Valid  []preview       `json:"valid"`
		Failed []xlsx.RowError `json:"failed,omitempty"`
	}{Failed: failed}
	for _, row := range rows {
		out.Valid = append(out.Valid, preview{
			Line:  row.Line,
			Name:  row.Material.Name,
			Unit:  row.Material.Unit,
			Price: row.Material.Price.String(),
		})
	}
	return printJSON(w, out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
