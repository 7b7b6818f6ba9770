package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"berlin-bridges/utils"
)

// maxPageBytes caps a single list page; the largest segments are a few MB.
const maxPageBytes = 32 << 20

// Fetcher returns the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher downloads pages with a plain HTTP GET.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewHTTPFetcher creates an HTTPFetcher with the given timeout and User-Agent.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxPageBytes,
	}
}

// Fetch GETs url. Non-200 answers are errors; 4xx answers are permanent.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, utils.Permanent(fmt.Errorf("build request for %s: %w", url, err))
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("GET %s: status code %d", url, resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, utils.Permanent(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, utils.Permanent(fmt.Errorf("read %s: page exceeds %d bytes", url, f.maxBytes))
	}
	return body, nil
}

// BrowserFetcher renders pages in headless Chrome and returns the final DOM.
type BrowserFetcher struct {
	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
	timeout     time.Duration
}

// NewBrowserFetcher starts a headless browser. chromeBin may be empty, in
// which case the usual install locations are searched. Close releases it.
func NewBrowserFetcher(ctx context.Context, chromeBin, userAgent string, timeout time.Duration) (*BrowserFetcher, error) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	// Suppress chromedp log noise
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so that every Fetch opens a tab in it instead
	// of launching its own instance.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("start browser %q: %w", chromeBin, err)
	}

	return &BrowserFetcher{
		browserCtx:  browserCtx,
		cancelAlloc: cancelAlloc,
		cancelCtx:   cancelCtx,
		timeout:     timeout,
	}, nil
}

// Fetch navigates a fresh tab to url and returns the outer HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
	defer cancelTimeout()

	// Stop the tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var doc string
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &doc, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("render %s: %w", url, err)
	}
	return []byte(doc), nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() {
	f.cancelCtx()
	f.cancelAlloc()
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
