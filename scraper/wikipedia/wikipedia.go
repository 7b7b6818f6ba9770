package wikipedia

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"berlin-bridges/models"
	"berlin-bridges/utils"
)

// NormalizeFunc turns a raw bridge name into an index key.
type NormalizeFunc func(string) string

// Options configure a Scraper.
type Options struct {
	BaseURL        string
	Segments       []string
	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Scraper builds the name → coordinate index from the bridge list subpages.
type Scraper struct {
	opts      Options
	fetcher   Fetcher
	normalize NormalizeFunc
	logger    *utils.Logger
	pool      *utils.WorkerPool
	retry     *utils.RetryConfig
}

// New creates a ready-to-use Scraper.
func New(opts Options, fetcher Fetcher, normalize NormalizeFunc, logger *utils.Logger) *Scraper {
	if opts.RetryBaseDelay == 0 {
		opts.RetryBaseDelay = 2 * time.Second
	}
	return &Scraper{
		opts:      opts,
		fetcher:   fetcher,
		normalize: normalize,
		logger:    logger,
		pool:      utils.NewWorkerPool(opts.MaxConcurrency, opts.RateLimitMs),
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   opts.RetryBaseDelay,
			Logger:      logger,
		},
	}
}

// SegmentURL is the address of one A–Z subpage.
func (s *Scraper) SegmentURL(segment string) string {
	return s.opts.BaseURL + "/" + segment
}

type segmentResult struct {
	entries []models.WikiEntry
	err     error
	skipped bool
}

// BuildIndex fetches every segment and merges the rows in segment order, so
// a later segment overrides an earlier one for the same key. Failed
// segments are logged and left out; only cancellation is an error.
func (s *Scraper) BuildIndex(ctx context.Context) (models.WikiIndex, error) {
	s.logger.Info("[wikipedia] Building bridge index from %d segments", len(s.opts.Segments))

	results := make([]segmentResult, len(s.opts.Segments))
	fetched := utils.NewKeySet()

	for i, seg := range s.opts.Segments {
		url := s.SegmentURL(seg)
		if !fetched.Add(url) {
			s.logger.Debug("[wikipedia] Segment %s listed twice, skipping", seg)
			results[i].skipped = true
			continue
		}
		if ctx.Err() != nil {
			break
		}

		slot := &results[i]
		s.pool.Submit(ctx, func() {
			slot.entries, slot.err = s.fetchSegment(ctx, url)
		})
	}
	s.pool.Wait()
	s.logger.Debug("[wikipedia] %d unique segments requested", fetched.Size())

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("wikipedia: build index: %w", err)
	}

	index := models.WikiIndex{}
	for i, res := range results {
		if res.skipped {
			continue
		}
		if res.err != nil {
			s.logger.Warn("[wikipedia] Failed to fetch segment %s: %v", s.opts.Segments[i], res.err)
			continue
		}
		for _, e := range res.entries {
			index[s.normalize(e.RawName)] = e
		}
	}

	s.logger.Info("[wikipedia] Found %d bridges with coordinates", len(index))
	return index, nil
}

func (s *Scraper) fetchSegment(ctx context.Context, url string) ([]models.WikiEntry, error) {
	s.logger.Info("[wikipedia] Fetching %s", url)

	var body []byte
	err := s.retry.Do(ctx, "fetch "+url, func() error {
		var err error
		body, err = s.fetcher.Fetch(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	entries, err := ParseSegment(bytes.NewReader(body), url)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("[wikipedia] %s: %d geocoded rows", url, len(entries))
	return entries, nil
}
