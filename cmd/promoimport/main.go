// Command promoimport loads promo code catalogues (gzipped JSON lines, from
// S3 or local disk) and upserts them into the promo_codes table.
//
// Usage:
//
//	promoimport [-dry-run] [catalogue ...]
//
// Without arguments the files listed in PROMO_CATALOGUE_FILES are imported.
// With -dry-run the catalogues are loaded and merged into memory only, which
// checks them without touching the database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tour-booking/internal/config"
	"tour-booking/internal/database"
	"tour-booking/internal/promo"
	"tour-booking/internal/repository"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dryRun bool
	paths  []string
}

// parseArgs reads flags from args; positional paths override defaultPaths.
func parseArgs(args []string, defaultPaths []string) (options, error) {
	fs := flag.NewFlagSet("promoimport", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "load and merge catalogues without writing to the database")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{dryRun: *dryRun, paths: fs.Args()}
	if len(opts.paths) == 0 {
		opts.paths = defaultPaths
	}
	if len(opts.paths) == 0 {
		return options{}, errors.New("no catalogue files given: pass paths as arguments or set PROMO_CATALOGUE_FILES")
	}
	return opts, nil
}

func run(args []string) error {
	cfg, err := config.LoadForImport()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "tour-booking-promoimport")

	opts, err := parseArgs(args, cfg.Promo.CatalogueFiles)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := newLoader(ctx, cfg.S3, logger)

	if opts.dryRun {
		summary, distinct, err := dryRun(ctx, loader, opts.paths, logger)
		if err != nil {
			return fmt.Errorf("dry run failed: %w", err)
		}
		logger.Info().
			Int("files", summary.Files).
			Int("loaded", summary.Loaded).
			Int("distinct_codes", distinct).
			Msg("promo catalogue dry run completed, nothing written")
		return nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	importer := promo.NewImporter(loader, repository.NewPromoRepository(pool, logger), logger)

	summary, err := importer.Import(ctx, opts.paths)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	logger.Info().
		Int("files", summary.Files).
		Int("loaded", summary.Loaded).
		Int("imported", summary.Imported).
		Msg("promo catalogue import completed")

	return nil
}

// dryRun imports paths into an in-memory store and reports how many distinct
// codes the merged catalogues define.
func dryRun(ctx context.Context, loader promo.Loader, paths []string, logger zerolog.Logger) (promo.ImportSummary, int, error) {
	store := promo.NewMemoryStore()

	summary, err := promo.NewImporter(loader, store, logger).Import(ctx, paths)
	if err != nil {
		return summary, 0, err
	}
	return summary, store.Size(), nil
}

// newLoader reads from S3 when enabled, falling back to local disk.
func newLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) promo.Loader {
	fileLoader := promo.NewFileLoader(logger)

	if !cfg.Enabled {
		logger.Info().Msg("using local file system for promo catalogues (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := promo.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return promo.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, logger)
}
