// Package vision implements the client side of the photo-validation
// service: it asks an external vision endpoint whether a captured image
// contains a named target object.
//
// The client never retries. A failed check is retried only when the user
// re-confirms the capture.
package vision

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

// MaxImageBytes is the size ceiling accepted by the validation service.
// Larger images are rejected locally, before any network traffic.
const MaxImageBytes = 5 * 1024 * 1024

// allowedImageTypes mirrors the encodings the service accepts.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

var (
	// Local input errors: the request never leaves the device.
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image too large")
	ErrEmptyImage           = errors.New("empty image")

	// Remote errors. These are infrastructure faults and must never be
	// presented as a content verdict.
	ErrServiceUnavailable = errors.New("validation service unavailable")
	ErrBadResponse        = errors.New("invalid validation response")
)

// Result is the service's judgment for one image/target pair.
type Result struct {
	Valid      bool   `json:"valid"`
	Confidence string `json:"confidence"`
	Target     string `json:"target"`
	Timestamp  string `json:"timestamp"`
	Message    string `json:"message"`
}

// Validator judges whether an image contains the named target.
type Validator interface {
	Validate(ctx context.Context, image []byte, contentType, target string) (*Result, error)
}

// Client talks to the validation endpoint over HTTP multipart.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the given API base URL
// (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CheckImage runs the local pre-flight checks shared by the client and the
// hosted endpoint: accepted encoding and size ceiling.
func CheckImage(contentType string, size int) error {
	if size == 0 {
		return ErrEmptyImage
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}
	if size > MaxImageBytes {
		return fmt.Errorf("%w: %dMB (max 5MB)", ErrImageTooLarge, size/1024/1024)
	}
	return nil
}

// Validate sends the image and target to the service and returns its
// verdict. Local input errors, transport/service errors and unparsable
// responses are returned as distinguishable error kinds; a definitive
// "no match" is not an error but a Result with Valid=false.
func (c *Client) Validate(ctx context.Context, image []byte, contentType, target string) (*Result, error) {
	if err := CheckImage(contentType, len(image)); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "capture"+extensionFor(contentType))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if err := mw.WriteField("target", target); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/validate-photo", &body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("%w: %d %s", ErrServiceUnavailable, resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	return &result, nil
}

// extensionFor maps an accepted content type to a filename extension.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
