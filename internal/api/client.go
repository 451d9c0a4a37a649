// Package api implements the HTTP client for the dashboard backend. It
// moves opaque payloads across the network boundary and interprets the
// response envelope; it never validates or reshapes domain data.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the dashboard backend. All calls are single-shot: no
// automatic retries, every failure is terminal for that attempt.
type Client struct {
	baseURL *url.URL
	client  *http.Client
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}

	return &Client{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the backend root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type seasonEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *SeasonSnapshot `json:"data"`
}

// FetchSeason retrieves the current-season snapshot. The API key is carried
// in the request body per the backend contract.
func (c *Client) FetchSeason(ctx context.Context, apiKey string) (*SeasonSnapshot, error) {
	const op = "fetch season"

	body, err := json.Marshal(map[string]string{"api_key": apiKey})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	var env seasonEnvelope
	if err := c.do(ctx, op, http.MethodPost, "/f1/fetch-data", bytes.NewReader(body), &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, newDeclaredError(op, env.Message)
	}
	if env.Data == nil {
		return nil, newDecodeError(op, fmt.Errorf("missing data payload"))
	}
	return env.Data, nil
}

type insightsEnvelope struct {
	Insights []Insight `json:"insights"`
}

// FetchInsights retrieves the generated season insights. Callers treat a
// failure as best-effort degradation, never as a fatal condition.
func (c *Client) FetchInsights(ctx context.Context) ([]Insight, error) {
	const op = "fetch insights"

	var env insightsEnvelope
	if err := c.do(ctx, op, http.MethodGet, "/f1/insights", nil, &env); err != nil {
		return nil, err
	}
	return env.Insights, nil
}

type historicalEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	HistoricalSeason
}

// FetchHistorical retrieves the archived season for year. A success=false
// answer (year outside the archive, upstream outage) surfaces as a declared
// error carrying the backend's message.
func (c *Client) FetchHistorical(ctx context.Context, year int) (*HistoricalSeason, error) {
	const op = "fetch historical season"

	var env historicalEnvelope
	path := fmt.Sprintf("/f1/historical/%d", year)
	if err := c.do(ctx, op, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, newDeclaredError(op, env.Message)
	}
	season := env.HistoricalSeason
	return &season, nil
}

type fileListEnvelope struct {
	Files []FileRecord `json:"files"`
}

// ListFiles retrieves every uploaded file. The result replaces any cached
// list wholesale; there is no incremental merge.
func (c *Client) ListFiles(ctx context.Context) ([]FileRecord, error) {
	const op = "list files"

	var env fileListEnvelope
	if err := c.do(ctx, op, http.MethodGet, "/files", nil, &env); err != nil {
		return nil, err
	}
	return env.Files, nil
}

// UploadReceipt is the backend's acknowledgement of a stored file.
type UploadReceipt struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FileID   int    `json:"file_id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
}

// Upload stores the named file contents on the backend as a multipart form
// with a single "file" field.
func (c *Client) Upload(ctx context.Context, filename string, contents io.Reader) (*UploadReceipt, error) {
	const op = "upload file"

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("%s: build form: %w", op, err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return nil, fmt.Errorf("%s: read contents: %w", op, err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("%s: finalize form: %w", op, err)
	}

	endpoint := c.baseURL.JoinPath("/files/upload")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &buf)
	if err != nil {
		return nil, newTransportError(op, c.baseURL.String(), err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newTransportError(op, c.baseURL.String(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(op, resp)
	}

	var receipt UploadReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, newDecodeError(op, err)
	}
	if !receipt.Success {
		return nil, newDeclaredError(op, receipt.Message)
	}
	return &receipt, nil
}

type analyzeEnvelope struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Filename string       `json:"filename"`
	Analysis FileAnalysis `json:"analysis"`
}

// Analyze asks the backend to analyze the file with the given id and
// returns the computed analysis keyed by the file's name.
func (c *Client) Analyze(ctx context.Context, fileID int) (*FileAnalysis, error) {
	const op = "analyze file"

	var env analyzeEnvelope
	path := fmt.Sprintf("/files/%d/analyze", fileID)
	if err := c.do(ctx, op, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, newDeclaredError(op, env.Message)
	}

	analysis := env.Analysis
	analysis.Filename = env.Filename
	return &analysis, nil
}

// Delete removes the file with the given id. Only the HTTP status is
// consulted; no body contract is relied on.
func (c *Client) Delete(ctx context.Context, fileID int) error {
	const op = "delete file"

	endpoint := c.baseURL.JoinPath(fmt.Sprintf("/files/%d", fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint.String(), http.NoBody)
	if err != nil {
		return newTransportError(op, c.baseURL.String(), err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return newTransportError(op, c.baseURL.String(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(op, resp)
	}
	return nil
}

// do issues a JSON request and decodes a 200 response into out.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, out any) error {
	endpoint := c.baseURL.JoinPath(path)

	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return newTransportError(op, c.baseURL.String(), err)
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return newTransportError(op, c.baseURL.String(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newDecodeError(op, err)
	}
	return nil
}

// statusError maps a non-2xx response to a typed error, surfacing the
// backend's "detail" text when present.
func (c *Client) statusError(op string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newStatusError(op, resp.StatusCode, "")
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		return newStatusError(op, resp.StatusCode, "")
	}
	return newStatusError(op, resp.StatusCode, detail.Detail)
}
