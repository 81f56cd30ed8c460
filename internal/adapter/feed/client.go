package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/couchcryptid/birdband-service/internal/domain"
)

// Client fetches the feed over HTTP. It implements pipeline.FeedExtractor.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client for url.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Extract performs the single feed request and decodes its rows. It does not
// retry.
func (c *Client) Extract(ctx context.Context) ([]domain.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed error: status %d: %s", resp.StatusCode, body)
	}

	rows, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("feed fetched", "url", c.url, "rows", len(rows))
	return rows, nil
}

// File reads the feed from a local document. It implements
// pipeline.FeedExtractor.
type File struct {
	path string
}

// NewFile creates a file-backed feed source.
func NewFile(path string) *File {
	return &File{path: path}
}

// Extract reads and decodes the file.
func (f *File) Extract(_ context.Context) ([]domain.RawRecord, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}
