// Package api implements the HTTP client for the Antivity API used by the
// walk CLI: authentication, walk session upload and journal retrieval.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/Ayash13/Antivity/internal/session"
	"github.com/Ayash13/Antivity/internal/walk"
)

// ErrUnavailable reports that the server could not be reached.
var ErrUnavailable = errors.New("server unavailable")

// User is the account payload returned by the auth endpoints.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// JournalEntry is one saved walk story.
type JournalEntry struct {
	ID             string    `json:"id"`
	SessionDocID   string    `json:"sessionDocId"`
	ResultImageURL string    `json:"resultImageUrl"`
	StoryTitle     string    `json:"storyTitle"`
	StoryContent   string    `json:"storyContent"`
	TotalDistance  float64   `json:"totalDistance"`
	CreatedAt      time.Time `json:"createdAt"`
}

// JournalDay is one day of the weekly journal view.
type JournalDay struct {
	Date     string             `json:"date"`
	Sessions []*session.Session `json:"sessions"`
	Entries  []JournalEntry     `json:"entries"`
}

// WeekJournal is the weekly journal view, Sunday first.
type WeekJournal struct {
	WeekStart string       `json:"weekStart"`
	Days      []JournalDay `json:"days"`
}

// Client talks to the Antivity API. It keeps the bearer token of the
// logged-in user; Login sets it, Logout drops it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient returns a Client for the given base URL
// (e.g. "http://127.0.0.1:8080").
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Token returns the current bearer token, or "".
func (c *Client) Token() string { return c.token }

// Logout drops the stored token.
func (c *Client) Logout() { c.token = "" }

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, password, displayName string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username":    username,
		"password":    password,
		"displayName": displayName,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login authenticates and stores the returned token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

// UploadWalk sends the finished walk to the server: slot metadata as a JSON
// "meta" field plus each captured photo as a "photo_{index}" file part.
func (c *Client) UploadWalk(ctx context.Context, startedAt time.Time, targets []string, slots []walk.Slot) (*session.Session, error) {

	type metaSlot struct {
		Index  int      `json:"index"`
		Target string   `json:"target"`
		Lat    *float64 `json:"lat,omitempty"`
		Lng    *float64 `json:"lng,omitempty"`
	}
	meta := struct {
		StartedAt time.Time  `json:"startedAt"`
		Targets   []string   `json:"targets"`
		Slots     []metaSlot `json:"slots"`
	}{StartedAt: startedAt, Targets: targets}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for i, s := range slots {
		ms := metaSlot{Index: i, Target: s.Target}
		if s.Geotag != nil {
			lat, lng := s.Geotag.Lat, s.Geotag.Lng
			ms.Lat, ms.Lng = &lat, &lng
		}
		meta.Slots = append(meta.Slots, ms)

		if len(s.Image) == 0 {
			continue
		}
		part, err := mw.CreatePart(photoPartHeader(i, s.ContentType))
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		if _, err := part.Write(s.Image); err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if err := mw.WriteField("meta", string(metaJSON)); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sessions", &body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var sess session.Session
	if err := c.do(req, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// LatestSession fetches the most recent walk session of the logged-in user.
func (c *Client) LatestSession(ctx context.Context) (*session.Session, error) {
	var sess session.Session
	if err := c.doJSON(ctx, http.MethodGet, "/api/sessions/latest", nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Journal fetches the weekly journal. A zero anchor means the current week.
func (c *Client) Journal(ctx context.Context, anchor time.Time) (*WeekJournal, error) {
	path := "/api/journal"
	if !anchor.IsZero() {
		path += "?anchor=" + anchor.Format("2006-01-02")
	}
	var week WeekJournal
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &week); err != nil {
		return nil, err
	}
	return &week, nil
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return fmt.Errorf("server: %s", e.Error)
		}
		return fmt.Errorf("server: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func photoPartHeader(index int, contentType string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="photo_%d"; filename="photo_%d%s"`, index, index, extensionFor(contentType)))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return h
}

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
