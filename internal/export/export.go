// Package export downloads every blessing photo to a local directory.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"wedding-memories/internal/models"
)

// DefaultDelay is the pause between two downloads.
const DefaultDelay = 500 * time.Millisecond

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName builds memory_{name}_table{N}_{id8}.jpg for a blessing.
func FileName(s models.Submission) string {
	name := ""
	if s.GuestName != nil {
		name = unsafeChars.ReplaceAllString(*s.GuestName, "")
	}
	if name == "" {
		name = "guest"
	}
	table := ""
	if s.TableNumber != nil {
		table = "_table" + strconv.Itoa(*s.TableNumber)
	}
	id := s.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("memory_%s%s_%s.jpg", name, table, id)
}

// Result summarizes an export run.
type Result struct {
	Saved  int
	Failed int
	Bytes  int64
}

func (r Result) String() string {
	return fmt.Sprintf("%d saved, %d failed, %s", r.Saved, r.Failed, humanize.Bytes(uint64(r.Bytes)))
}

type Exporter struct {
	client  *http.Client
	baseURL *url.URL
	dir     string
	delay   time.Duration
	log     zerolog.Logger
}

type Option func(*Exporter)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(e *Exporter) { e.delay = d }
}

// WithClient overrides the HTTP client.
func WithClient(c *http.Client) Option {
	return func(e *Exporter) { e.client = c }
}

// NewExporter writes into dir. Relative photo URLs are resolved against
// baseURL.
func NewExporter(dir, baseURL string, log zerolog.Logger, opts ...Option) (*Exporter, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	e := &Exporter{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: base,
		dir:     dir,
		delay:   DefaultDelay,
		log:     log.With().Str("component", "export").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run downloads the photos one at a time. A failed download is logged and
// the run moves on; cancelling ctx stops it between downloads.
func (e *Exporter) Run(ctx context.Context, subs []models.Submission) (Result, error) {
	var res Result
	for i, s := range subs {
		if i > 0 && e.delay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(e.delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n, name, err := e.download(ctx, s.PhotoURL, FileName(s))
		if err != nil {
			res.Failed++
			e.log.Error().Err(err).Str("id", s.ID).Str("file", name).Msg("Download failed")
			continue
		}
		res.Saved++
		res.Bytes += n
		e.log.Info().Str("file", name).Str("size", humanize.Bytes(uint64(n))).Msg("Saved")
	}
	return res, nil
}

// download saves one photo and returns the size and the file name used.
func (e *Exporter) download(ctx context.Context, photoURL, name string) (int64, string, error) {
	ref, err := url.Parse(photoURL)
	if err != nil {
		return 0, name, fmt.Errorf("invalid photo url: %w", err)
	}
	target := e.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return 0, name, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return 0, name, fmt.Errorf("failed to fetch photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, name, fmt.Errorf("failed to fetch photo: status %d", resp.StatusCode)
	}

	f, name, err := createUnique(e.dir, name)
	if err != nil {
		return 0, name, err
	}
	path := f.Name()
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return 0, name, fmt.Errorf("failed to write photo: %w", err)
	}
	return n, name, nil
}

// createUnique creates name in dir without replacing an existing file.
// A taken name gets a _2, _3, ... suffix before the extension.
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 2; ; i++ {
		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, candidate, fmt.Errorf("failed to create file: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}
