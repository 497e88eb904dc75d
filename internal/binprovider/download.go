package binprovider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// downloadTimeout is the HTTP request timeout for release downloads.
	downloadTimeout = 5 * time.Minute
	// downloadRetries is the number of download retries.
	downloadRetries = 3
	// downloadUserAgent is the User-Agent header sent with requests.
	downloadUserAgent = "WARDEN/1.0"
)

// downloader handles HTTP downloads with retry logic and atomic writes.
// Partial downloads land in a .tmp file and are renamed only on success,
// so a re-run after an interrupted install completes rather than corrupts.
type downloader struct {
	client   *http.Client
	cacheDir string
	retries  int
}

// newDownloader creates a downloader caching into cacheDir.
func newDownloader(cacheDir string) *downloader {
	return &downloader{
		client: &http.Client{
			Timeout: downloadTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		cacheDir: cacheDir,
		retries:  downloadRetries,
	}
}

// fetch downloads url into the cache (cache/{binName}/{version}/{file}),
// returning the cached path. An existing non-empty cache entry short-
// circuits the download.
func (d *downloader) fetch(ctx context.Context, url, binName, version string) (string, error) {
	cachePath := filepath.Join(d.cacheDir, binName, version, filepath.Base(url))

	if cachedFileExists(cachePath) {
		return cachePath, nil
	}

	if err := d.downloadToFile(ctx, url, cachePath); err != nil {
		return "", fmt.Errorf("download %s: %w", filepath.Base(url), err)
	}
	return cachePath, nil
}

// downloadToFile downloads a URL to a specific path with retries.
func (d *downloader) downloadToFile(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("download failed after %d retries: %w", d.retries, lastErr)
}

// downloadOnce performs a single download attempt with an atomic rename.
func (d *downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}

// cachedFileExists checks if a file exists and is not empty.
func cachedFileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
