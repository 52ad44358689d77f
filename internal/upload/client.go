package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Response is the upload endpoint's reply. A missing or undecodable body is
// treated the same as success=false; the controller falls back to its
// generic message.
type Response struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url"`
	Error       string `json:"error"`
}

// Client submits files to the upload endpoint as multipart form data.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL. No request timeout
// is set; cancellation comes from the caller's context.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpClient: &http.Client{}}
}

// NewClientWithHTTP allows injecting a custom *http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Upload POSTs the file to /upload under the form field "file". A non-nil
// error means the transport failed; an application-level failure comes back
// as a Response with Success=false. A non-2xx status is a failure even when
// the body claims success.
func (c *Client) Upload(ctx context.Context, filename string, data io.Reader) (*Response, error) {
	var body bytes.Buffer
	formWriter := multipart.NewWriter(&body)
	part, err := formWriter.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := formWriter.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", formWriter.FormDataContentType())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp Response
	// a body that does not decode is handled as an application-level failure
	_ = json.Unmarshal(respBody, &resp)
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		resp.Success = false
	}
	return &resp, nil
}
