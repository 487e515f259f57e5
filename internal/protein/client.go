package protein

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultAPI = "http://localhost:5000/api/protein/"

// Metadata is what the protein API returns for one accession.
type Metadata struct {
	Accession   string `json:"accession,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ModelURL    string `json:"modelUrl"`
}

// Client reads metadata and model files from a protein API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for an API whose metadata lives at
// baseURL+accession.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultAPI
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Metadata(ctx context.Context, accession string) (*Metadata, error) {
	body, err := get(ctx, c.client, c.baseURL+accession)
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	if meta.Accession == "" {
		meta.Accession = accession
	}
	return &meta, nil
}

// Structure downloads the model text behind modelURL.
func (c *Client) Structure(ctx context.Context, modelURL string) (string, error) {
	if modelURL == "" {
		return "", ErrNoModelURL
	}
	body, err := get(ctx, c.client, modelURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// maxErrorBody bounds how much of a failed response ends up in an error.
const maxErrorBody = 512

func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Body: msg}
	}
	return body, nil
}
