package huggingface

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/dataset"
	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/ingestion"
)

const source = "hf"

// Client downloads published dataset files from a Hugging Face compatible
// hub.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewClient creates a new hub client. token may be empty for public
// datasets.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "huggingface",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

// Fetch downloads the dataset file named by req. The caller must close the
// returned body.
func (c *Client) Fetch(ctx context.Context, req ingestion.FetchRequest) (ingestion.FetchResult, error) {
	ref := dataset.Ref{Repo: req.Repo, File: req.Dataset.File(), Revision: req.Revision}

	body, err := c.download(ctx, ref)
	if err != nil {
		return ingestion.FetchResult{}, err
	}

	return ingestion.FetchResult{
		Body:      body,
		Source:    source,
		Extension: ref.Ext(),
	}, nil
}

// Reports implements dataset.Source by downloading and decoding ref.
func (c *Client) Reports(ctx context.Context, ref dataset.Ref) ([]dataset.Report, error) {
	body, err := c.download(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	rows, err := dataset.Decode(ref.Ext(), body)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ref, err)
	}
	return rows, nil
}

func (c *Client) download(ctx context.Context, ref dataset.Ref) (io.ReadCloser, error) {
	url := ref.URL(c.baseURL)
	slog.InfoContext(ctx, "downloading dataset", "dataset", ref.Key(), "url", url)

	// Only transport failures and server errors count against the breaker.
	// Client errors such as a missing file come back as a response.
	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, &apiError{StatusCode: resp.StatusCode, Message: "download failed"}
		}
		return resp, nil
	})
	if err != nil {
		return nil, c.toClientError(err, "failed to download "+ref.Key())
	}

	resp := result.(*http.Response)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, c.toClientError(&apiError{StatusCode: resp.StatusCode, Message: "download failed"}, "failed to download "+ref.Key())
	}

	slog.DebugContext(ctx, "dataset download started", "dataset", ref.Key(), "content_length", resp.ContentLength)
	// Caller must close this body
	return resp.Body, nil
}

// toClientError wraps an internal error into a ClientError for external consumers.
func (c *Client) toClientError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &ClientError{Message: context, Err: err}
}
