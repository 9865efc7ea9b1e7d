// Package images resolves the image file of a catalogue item, falling back
// through numbered variants and finally to a placeholder.
package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxAttempts bounds the numbered variants tried after the primary name.
const DefaultMaxAttempts = 5

// Candidates lists the locations tried for filename under base: the name
// itself, then "<name> (n).JPG" for n in 1..max.
func Candidates(base, filename string, max int) []string {
	if filename == "" {
		return nil
	}
	out := make([]string, 0, max+1)
	out = append(out, path.Join(base, filename))
	for n := 1; n <= max; n++ {
		out = append(out, path.Join(base, fmt.Sprintf("%s (%d).JPG", filename, n)))
	}
	return out
}

// Prober reports whether an image exists at a location.
type Prober interface {
	Exists(ctx context.Context, location string) (bool, error)
}

// DirProber checks locations relative to a local directory.
type DirProber struct {
	Root string
}

// Exists stats the file under Root.
func (p DirProber) Exists(_ context.Context, location string) (bool, error) {
	fi, err := os.Stat(filepath.Join(p.Root, filepath.FromSlash(location)))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !fi.IsDir(), nil
}

// HTTPProber checks locations with HEAD requests against a base URL.
type HTTPProber struct {
	BaseURL string
	client  *http.Client
}

// NewHTTPProber returns a prober that does not follow redirects.
func NewHTTPProber(baseURL string) *HTTPProber {
	return &HTTPProber{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Exists is true for a 2xx answer.
func (p *HTTPProber) Exists(ctx context.Context, location string) (bool, error) {
	u := p.BaseURL + "/" + escapePath(location)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("HEAD %s: %w", u, err)
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

// Resolution is the outcome of resolving one image.
type Resolution struct {
	Location    string   `json:"location"`
	Placeholder bool     `json:"placeholder"`
	Tried       []string `json:"tried,omitempty"`
}

// Resolver walks candidates with a Prober.
type Resolver struct {
	prober      Prober
	maxAttempts int
	logger      *slog.Logger
}

// NewResolver returns a resolver; maxAttempts <= 0 selects DefaultMaxAttempts.
func NewResolver(p Prober, maxAttempts int, logger *slog.Logger) *Resolver {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{prober: p, maxAttempts: maxAttempts, logger: logger}
}

// MaxAttempts returns the number of numbered variants tried.
func (r *Resolver) MaxAttempts() int { return r.maxAttempts }

// Resolve returns the first existing candidate, or placeholder once every
// candidate has been tried. Probe errors count as a miss.
func (r *Resolver) Resolve(ctx context.Context, base, filename, placeholder string) Resolution {
	cands := Candidates(base, filename, r.maxAttempts)
	res := Resolution{}
	for _, c := range cands {
		if ctx.Err() != nil {
			break
		}
		res.Tried = append(res.Tried, c)
		ok, err := r.prober.Exists(ctx, c)
		if err != nil {
			r.logger.Debug("image probe failed", "location", c, "error", err)
			continue
		}
		if ok {
			res.Location = c
			return res
		}
	}
	res.Location = placeholder
	res.Placeholder = true
	return res
}
