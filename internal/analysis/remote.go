package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Analyzer produces a WBS analysis for an uploaded document. The engine
// itself lives outside this service; this interface is the seam.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, document io.Reader) (*Result, map[string]int, error)
}

// Remote forwards documents to an external analyzer service and decodes the
// analysis it returns.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type remoteResponse struct {
	Success bool           `json:"success"`
	Data    *Result        `json:"data"`
	Usage   map[string]int `json:"usage"`
	Error   string         `json:"error"`
}

// Analyze posts the document to the analyzer's /analyze endpoint as
// multipart form data and returns the decoded result and token usage.
func (r *Remote) Analyze(ctx context.Context, filename string, document io.Reader) (*Result, map[string]int, error) {
	if r.baseURL == "" {
		return nil, nil, errors.New("analyzer url is not configured")
	}

	var body bytes.Buffer
	formWriter := multipart.NewWriter(&body)
	part, err := formWriter.CreateFormFile("file", filename)
	if err != nil {
		return nil, nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, document); err != nil {
		return nil, nil, fmt.Errorf("read document: %w", err)
	}
	if err := formWriter.Close(); err != nil {
		return nil, nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/analyze", &body)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", formWriter.FormDataContentType())

	res, err := r.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("analyzer request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	var decoded remoteResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	if res.StatusCode != http.StatusOK || !decoded.Success || decoded.Data == nil {
		if decoded.Error != "" {
			return nil, nil, errors.New(decoded.Error)
		}
		return nil, nil, fmt.Errorf("analyzer returned status %d", res.StatusCode)
	}
	return decoded.Data, decoded.Usage, nil
}
