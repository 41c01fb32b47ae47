// Package storage talks to the hosted gallery backend over HTTP. The backend
// owns persistence; this client only moves files and lists what is stored.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoEndpoint indicates the client has no backend configured.
var ErrNoEndpoint = errors.New("storage: no endpoint configured")

// Entry describes one stored composite as reported by the backend.
type Entry struct {
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Uploaded time.Time `json:"uploaded"`
}

// Client uploads composites to and lists them from the gallery backend.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// New creates a client for the given endpoint. The token is sent as a bearer
// credential when non-empty.
func New(endpoint, token string) *Client {
	return &Client{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		token:    token,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadImage sends the PNG at path to the backend and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	return c.upload(ctx, "/api/images", path, "image/png")
}

// UploadPDF sends the PDF at path to the backend and returns its public URL.
func (c *Client) UploadPDF(ctx context.Context, path string) (string, error) {
	return c.upload(ctx, "/api/documents", path, "application/pdf")
}

// DeleteImage removes a previously uploaded composite by its public URL.
func (c *Client) DeleteImage(ctx context.Context, imageURL string) error {
	if c.endpoint == "" {
		return ErrNoEndpoint
	}
	target := c.endpoint + "/api/images?" + url.Values{"url": {imageURL}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("delete", resp)
	}
	return nil
}

// ListGallery returns the stored composites, newest first as the backend
// reports them.
func (c *Client) ListGallery(ctx context.Context) ([]Entry, error) {
	if c.endpoint == "" {
		return nil, ErrNoEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/images", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list", resp)
	}
	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode gallery listing: %w", err)
	}
	return entries, nil
}

func (c *Client) upload(ctx context.Context, route, path, contentType string) (string, error) {
	if c.endpoint == "" {
		return "", ErrNoEndpoint
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+route, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Upload-Content-Type", contentType)
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", statusError("upload", resp)
	}
	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return result.URL, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func statusError(op string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	trimmed := strings.TrimSpace(string(msg))
	if trimmed == "" {
		return fmt.Errorf("storage %s: unexpected status %s", op, resp.Status)
	}
	return fmt.Errorf("storage %s: %s: %s", op, resp.Status, trimmed)
}
