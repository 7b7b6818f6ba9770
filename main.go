package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"berlin-bridges/config"
	"berlin-bridges/models"
	"berlin-bridges/scraper/wikipedia"
	"berlin-bridges/services"
	"berlin-bridges/storage"
	"berlin-bridges/utils"
)

const (
	exitOK         = 0
	exitFatal      = 1
	exitValidation = 2
)

func main() {
	cfg := config.Load()
	logger := utils.NewLoggerTo(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, logger)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) int {
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		return exitFatal
	}

	runID := uuid.NewString()
	logger.Info("=== Berlin bridge geocoder starting (run %s) ===", runID)
	logger.Info("Config: segments: %d | fetch: %s | concurrency: %d | rate: %dms | dry run: %t",
		len(cfg.Segments), cfg.FetchMode, cfg.MaxConcurrency, cfg.RateLimitMs, cfg.DryRun)

	store := storage.NewJSONStore(cfg.DryRun, logger)
	renovation, err := store.LoadRenovation(cfg.RenovationPath())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Error("Failed to load renovation dataset: %v", err)
		return exitFatal
	}
	if renovation == nil {
		logger.Warn("[storage] %s not found, skipping", cfg.RenovationPath())
	}

	damage, err := store.LoadDamage(cfg.DamagePath())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Error("Failed to load damage dataset: %v", err)
		return exitFatal
	}
	if damage == nil {
		logger.Warn("[storage] %s not found, skipping", cfg.DamagePath())
	}

	if renovation == nil && damage == nil {
		logger.Error("No datasets found in %s. Exiting.", cfg.DataDir)
		return exitFatal
	}

	var reports storage.ReportWriter = storage.NewCSVWriter()

	var geo *models.GeocodeResult
	if cfg.SkipGeocode {
		logger.Info("[geocoder] SKIP_GEOCODE set, keeping existing coordinates")
	} else {
		res, err := geocode(ctx, cfg, logger, store, renovation, damage)
		if err != nil {
			logger.Error("Geocoding failed: %v", err)
			return exitFatal
		}
		geo = res

		wrote, err := reports.WriteUnmatched(cfg.UnmatchedCSVPath, geo.Unmatched)
		if err != nil {
			logger.Error("Unmatched report failed: %v", err)
		} else if wrote {
			logger.Info("Unmatched bridges: %s", cfg.UnmatchedCSVPath)
		}
	}

	validator := services.NewValidator(logger)
	var issues []models.ValidationIssue
	if renovation != nil {
		issues = append(issues, validator.ValidateRenovation(renovation, cfg.RenovationFile)...)
	}
	if damage != nil {
		issues = append(issues, validator.ValidateDamage(damage, cfg.DamageFile)...)
	}
	if cfg.ValidationCSVPath != "" {
		if err := reports.WriteIssues(cfg.ValidationCSVPath, issues); err != nil {
			logger.Error("Validation report failed: %v", err)
		} else {
			logger.Info("Validation issues (%d): %s", len(issues), cfg.ValidationCSVPath)
		}
	}

	var catalog []*models.CatalogEntry
	if renovation != nil {
		catalog = append(catalog, renovation.Catalog()...)
	}
	if damage != nil {
		catalog = append(catalog, damage.Catalog()...)
	}

	for _, e := range catalog {
		e.RunID = runID
	}
	entries, err := storeCatalog(ctx, cfg, logger, catalog)
	if err != nil {
		logger.Error("Catalog storage failed: %v", err)
		return exitFatal
	}

	summary := services.NewSummaryService(logger)
	summary.Print(os.Stdout, summary.Generate(entries), geo)

	if cfg.StrictValidation && services.HasErrors(issues) {
		logger.Error("Validation failed with errors (STRICT_VALIDATION)")
		return exitValidation
	}
	return exitOK
}

// geocode builds the Wikipedia index and fills missing coordinates, damage
// dataset first. Updated datasets are written back.
func geocode(ctx context.Context, cfg *config.Config, logger *utils.Logger, store *storage.JSONStore,
	renovation *models.RenovationDataset, damage *models.DamageDataset) (*models.GeocodeResult, error) {

	fetcher, closeFetcher, err := newFetcher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeFetcher()

	scraper := wikipedia.New(wikipedia.Options{
		BaseURL:        cfg.WikiBaseURL,
		Segments:       cfg.Segments,
		MaxConcurrency: cfg.MaxConcurrency,
		RateLimitMs:    cfg.RateLimitMs,
		MaxRetries:     cfg.MaxRetries,
	}, fetcher, services.NormalizeName, logger)

	index, err := scraper.BuildIndex(ctx)
	if err != nil {
		return nil, err
	}

	matcher := services.NewMatcher(index)
	logger.Info("[geocoder] Matching against %d indexed names", matcher.Size())
	geocoder := services.NewGeocoder(matcher, logger)
	total := &models.GeocodeResult{}

	if damage != nil {
		total.Add(geocoder.GeocodeDamage(damage, cfg.DamageFile))
		if err := store.SaveDamage(cfg.DamagePath(), damage); err != nil {
			return nil, err
		}
	}
	if renovation != nil {
		total.Add(geocoder.GeocodeRenovation(renovation, cfg.RenovationFile))
		if err := store.SaveRenovation(cfg.RenovationPath(), renovation); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func newFetcher(ctx context.Context, cfg *config.Config) (wikipedia.Fetcher, func(), error) {
	timeout := time.Duration(cfg.HTTPTimeoutSec) * time.Second
	if cfg.FetchMode == config.FetchModeBrowser {
		bf, err := wikipedia.NewBrowserFetcher(ctx, cfg.ChromeBin, cfg.UserAgent, timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("start browser: %w", err)
		}
		return bf, bf.Close, nil
	}
	return wikipedia.NewHTTPFetcher(timeout, cfg.UserAgent), func() {}, nil
}

// storeCatalog persists the catalog and reads it back for the summary.
// Without PostgreSQL the catalog stays in memory.
func storeCatalog(ctx context.Context, cfg *config.Config, logger *utils.Logger,
	catalog []*models.CatalogEntry) ([]*models.CatalogEntry, error) {

	var writer storage.CatalogWriter
	if cfg.PostgresEnabled {
		pg, err := storage.NewPostgresWriter(ctx, cfg.DSN())
		if err != nil {
			logger.Error("Check that PostgreSQL is reachable with the POSTGRES_* settings")
			return nil, err
		}
		writer = pg
	} else {
		writer = storage.NewMemoryCatalog()
	}
	defer writer.Close()

	if err := writer.Write(ctx, catalog); err != nil {
		return nil, err
	}
	if cfg.PostgresEnabled {
		logger.Info("Catalog stored in PostgreSQL (table: bridges, %d rows)", len(catalog))
	}

	entries, err := writer.FetchAll(ctx)
	if err != nil {
		logger.Warn("Failed to fetch catalog back, using in-memory copy: %v", err)
		return catalog, nil
	}
	return entries, nil
}
