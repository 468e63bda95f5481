package repository

import (
	"context"
	"fmt"
	"github.com/csnewman/craftlauncher/metrics"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"io"
	"net/http"
	"time"
)

// Client talks to the content server.
type Client struct {
	log     *zap.SugaredLogger
	http    *http.Client
	metrics metrics.Collector

	// Output receives byte progress bars for downloads. Nil disables them.
	Output io.Writer
}

func NewClient(log *zap.SugaredLogger, httpClient *http.Client, collector metrics.Collector) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Minute}
	}

	return &Client{
		log:     log,
		http:    httpClient,
		metrics: collector,
	}
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkErr("GET error", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{Url: url, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// GetManifest fetches and validates the remote manifest.
func (c *Client) GetManifest(ctx context.Context, url string) (*Manifest, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkErr("read body", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	manifest.RetrievedAt = time.Now()

	return &manifest, nil
}

// GetManifestOrExample fetches the remote manifest, falling back to ExampleManifest on any
// failure other than cancellation.
func (c *Client) GetManifestOrExample(ctx context.Context, url string) (*Manifest, error) {
	if url == "" {
		c.log.Warn("No manifest URL configured, using example manifest")
		return ExampleManifest(), nil
	}

	m, err := c.GetManifest(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.log.Warnw("Failed to fetch manifest, using example manifest", "url", url, "error", err)
		return ExampleManifest(), nil
	}

	return m, nil
}
