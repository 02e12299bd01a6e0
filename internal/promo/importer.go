package promo

import (
	"context"
	"fmt"
	"sync"

	"tour-booking/internal/model"

	"github.com/rs/zerolog"
)

// ImportSummary reports what an import run did.
type ImportSummary struct {
	Files    int
	Loaded   int
	Imported int
}

// Importer loads catalogue files and writes their codes to a Writer.
type Importer struct {
	loader Loader
	writer Writer
	logger zerolog.Logger
}

// NewImporter creates a new catalogue importer.
func NewImporter(loader Loader, writer Writer, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		writer: writer,
		logger: logger.With().Str("component", "promo-importer").Logger(),
	}
}

// Import loads every path concurrently and upserts the merged result.
// When a code appears in several files the last file in paths wins.
// Nothing is written if any file fails to load.
func (i *Importer) Import(ctx context.Context, paths []string) (ImportSummary, error) {
	summary := ImportSummary{Files: len(paths)}

	i.logger.Info().Int("file_count", len(paths)).Msg("importing promo catalogues")

	type loadResult struct {
		index int
		codes []model.PromoCode
		err   error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for idx, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			codes, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, codes: codes, err: err}
		}(idx, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := make(map[string]model.PromoCode)
	var order []string
	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().
				Err(result.err).
				Str("file", paths[idx]).
				Msg("failed to load promo catalogue")
			return summary, fmt.Errorf("failed to load promo catalogue %s: %w", paths[idx], result.err)
		}
		for _, pc := range result.codes {
			if _, seen := merged[pc.Code]; !seen {
				order = append(order, pc.Code)
			}
			merged[pc.Code] = pc
			summary.Loaded++
		}
	}

	for _, code := range order {
		pc := merged[code]
		if err := i.writer.Upsert(ctx, &pc); err != nil {
			i.logger.Error().Err(err).Str("promo_code", code).Msg("failed to write promo code")
			return summary, fmt.Errorf("failed to write promo code %s: %w", code, err)
		}
		summary.Imported++
	}

	i.logger.Info().
		Int("files", summary.Files).
		Int("loaded", summary.Loaded).
		Int("imported", summary.Imported).
		Msg("promo catalogues imported")

	return summary, nil
}
