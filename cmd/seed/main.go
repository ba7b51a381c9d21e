// Package main imports shows into the CorpsBoard database from a text file.
//
// Each line is "year | corps | title [| poster_url]" or the comma-separated
// equivalent. Blank lines and lines starting with # are skipped.
//
// Usage:
//
//	go run ./cmd/seed -file shows.txt
//	go run ./cmd/seed -file - -db-path ./corpsboard.db < shows.txt
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/corpsboard/corpsboard-server/internal/config"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
	"github.com/corpsboard/corpsboard-server/internal/logger"
	"github.com/corpsboard/corpsboard-server/internal/service"
	"github.com/corpsboard/corpsboard-server/internal/store/sqlite"
	"github.com/corpsboard/corpsboard-server/internal/validation"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	file := fs.String("file", "", "Show list to import ('-' reads stdin)")
	dbPath := fs.String("db-path", "", "SQLite database file (default from config)")
	envFile := fs.String("env-file", ".env", "Path to .env file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("-file is required")
	}

	cfgArgs := []string{"-env-file", *envFile}
	if *dbPath != "" {
		cfgArgs = append(cfgArgs, "-db-path", *dbPath)
	}
	cfg, err := config.Load(cfgArgs)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	text, err := readInput(*file, stdin)
	if err != nil {
		return err
	}

	st, err := sqlite.Open(cfg.Storage.DBPath, log.Logger)
	if err != nil {
		return err
	}
	defer st.Close()

	catalog := service.NewCatalogService(st, validation.New(), log.WithField("component", "seed").Logger)
	report, err := catalog.BulkImport(context.Background(), text)
	if report != nil {
		for _, lineErr := range report.Errors {
			fmt.Fprintf(stdout, "  %s\n", lineErr.Error())
		}
	}
	if err != nil {
		var de *domainerrors.Error
		if errors.As(err, &de) && de.Code == domainerrors.CodeValidation {
			return errors.New(de.Message)
		}
		return err
	}

	fmt.Fprintf(stdout, "batch %s: %d inserted, %d duplicates (%d posters updated), %d invalid\n",
		report.BatchID, report.Inserted, report.Duplicates, report.PostersUpdated, report.Invalid)
	return nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	//#nosec G304 -- Operator-supplied import file
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}
