package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Checker periodically verifies that every dataset location is reachable.
// URLs get a HEAD request; local paths are stat'ed and reported as 200 or 404.
type Checker struct {
	sources  *DB
	logger   *slog.Logger
	interval time.Duration
	root     string
	client   *http.Client
}

// NewChecker creates a Checker running every interval. Relative dataset
// paths are checked under root, as the loader reads them.
func NewChecker(sources *DB, logger *slog.Logger, interval time.Duration, root string) *Checker {
	return &Checker{
		sources:  sources,
		logger:   logger,
		interval: interval,
		root:     root,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start checks immediately, then every interval until ctx is cancelled.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckAll checks every source and stores the outcome. It returns the number
// of reachable and unreachable sources.
func (c *Checker) CheckAll(ctx context.Context) (ok, failed int) {
	list, err := c.sources.List()
	if err != nil {
		c.logger.Error("source check: cannot list sources", "error", err)
		return 0, 0
	}

	for _, src := range list {
		if ctx.Err() != nil {
			return ok, failed
		}
		status, checkErr := c.checkOne(ctx, src.DatasetURL)
		errMsg := ""
		if checkErr != nil {
			errMsg = checkErr.Error()
		}
		if err := c.sources.UpdateCheck(src.CollectionID, status, errMsg); err != nil {
			c.logger.Error("source check: update failed", "collection", src.CollectionID, "error", err)
		}

		if status >= 200 && status < 400 {
			ok++
			continue
		}
		failed++
		c.logger.Warn("dataset unreachable",
			"collection", src.CollectionID,
			"url", src.DatasetURL,
			"status", status,
			"error", errMsg,
		)
	}
	c.logger.Info("source check complete", "total", ok+failed, "ok", ok, "failed", failed)
	return ok, failed
}

func (c *Checker) checkOne(ctx context.Context, loc string) (int, error) {
	if !IsURL(loc) {
		_, err := os.Stat(Resolve(c.root, loc))
		switch {
		case err == nil:
			return http.StatusOK, nil
		case errors.Is(err, fs.ErrNotExist):
			return http.StatusNotFound, nil
		default:
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, loc, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", loc, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
