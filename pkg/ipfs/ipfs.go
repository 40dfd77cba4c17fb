package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// File is a published object: its gateway path and content hash.
type File struct {
	Path string
	Hash string
}

// Client is the content-addressable store the engine publishes evidence and
// translated documents to. The engine treats it as opaque: publish bytes,
// get back a path.
type Client interface {
	Publish(ctx context.Context, name string, data []byte) (*File, error)
	URL(path string) string
}

// HTTPClient talks to an IPFS node over its HTTP API and resolves paths
// through a public gateway.
type HTTPClient struct {
	apiURL     string
	gatewayURL string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPClient(apiURL, gatewayURL string, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		apiURL:     strings.TrimRight(apiURL, "/"),
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
}

// Publish uploads a named file and returns its path and hash.
func (c *HTTPClient) Publish(ctx context.Context, name string, data []byte) (*File, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/v0/add", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to publish %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ipfs add returned status %d: %s", resp.StatusCode, string(payload))
	}

	var added addResponse
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		return nil, fmt.Errorf("failed to decode ipfs add response: %w", err)
	}

	file := &File{
		Path: fmt.Sprintf("/ipfs/%s/%s", added.Hash, name),
		Hash: added.Hash,
	}
	c.logger.Sugar().Debugw("Published file",
		"name", name,
		"hash", file.Hash,
	)
	return file, nil
}

// URL resolves a published path through the gateway.
func (c *HTTPClient) URL(path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.gatewayURL + path
}
