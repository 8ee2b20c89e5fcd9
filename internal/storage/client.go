// Package storage talks to the external document store over HTTP multipart.
// The rest of the system only ever persists the URL the store hands back.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	APIURL        string
	APIKey        string
	UploadTimeout time.Duration
}

type Client struct {
	apiURL        string
	apiKey        string
	uploadTimeout time.Duration
	httpClient    *http.Client
	logger        *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.UploadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiURL:        config.APIURL,
		apiKey:        config.APIKey,
		uploadTimeout: timeout,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

// Upload pushes the document bytes to the store and returns the public URL.
// The stored object name is randomized so two staff uploading "leave.pdf"
// never collide. No retry; the caller surfaces failures as external errors.
func (c *Client) Upload(ctx context.Context, filename, contentType string, data io.Reader, ownerEmail string) (string, error) {
	objectName := uuid.NewString() + filepath.Ext(filename)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", objectName)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", fmt.Errorf("failed to write document bytes: %w", err)
	}
	if err := writer.WriteField("owner_email", ownerEmail); err != nil {
		return "", fmt.Errorf("failed to write owner field: %w", err)
	}
	if err := writer.WriteField("content_type", contentType); err != nil {
		return "", fmt.Errorf("failed to write content type field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("document store rejected upload",
			"status", resp.StatusCode,
			"object_name", objectName,
			"body", string(snippet))
		return "", fmt.Errorf("document store returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResponse.URL == "" {
		return "", fmt.Errorf("document store response missing url")
	}

	c.logger.Info("document uploaded",
		"object_name", objectName,
		"owner_email", ownerEmail,
		"url", apiResponse.URL)

	return apiResponse.URL, nil
}
