// Package storage is a thin client for the backend's object store. It only
// ever writes ASCII-safe object keys; the original, possibly non-ASCII file
// name is recorded alongside the returned public URL by the caller.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/workroom-hq/workroom-go/internal/errs"
)

// Client uploads and removes objects in a single bucket.
type Client struct {
	rc     *resty.Client
	bucket string
}

// New builds a storage client for the given backend.
func New(baseURL, apiKey, bucket string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetTimeout(2 * time.Minute)
	return &Client{rc: rc, bucket: bucket}
}

// Upload stores content under objectPath and returns the public retrieval URL.
func (c *Client) Upload(ctx context.Context, objectPath string, content []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", mimeType).
		SetBody(content).
		Post("/storage/v1/object/" + c.bucket + "/" + objectPath)
	if err != nil {
		return "", errs.FromNetwork("upload object", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", errs.FromStatus("upload object", resp.StatusCode(), string(resp.Body()))
	}
	return c.PublicURL(objectPath), nil
}

// Remove deletes the object. Missing objects are not an error.
func (c *Client) Remove(ctx context.Context, objectPath string) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		Delete("/storage/v1/object/" + c.bucket + "/" + objectPath)
	if err != nil {
		return errs.FromNetwork("remove object", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	}
	return errs.FromStatus("remove object", resp.StatusCode(), string(resp.Body()))
}

// PublicURL renders the public retrieval URL for objectPath.
func (c *Client) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.rc.BaseURL, c.bucket, objectPath)
}

// ObjectPath derives a fresh ASCII-safe object key under prefix. The original
// file name never becomes part of the key; only a sanitized extension
// survives.
func ObjectPath(prefix, fileName string) string {
	return path.Join(prefix, uuid.NewString()+safeExt(fileName))
}

// safeExt keeps the extension only when it is plain ASCII letters/digits.
func safeExt(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" || ext == "." {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
