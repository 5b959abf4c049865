// Package client is a typed HTTP client for the spincat API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Meme mirrors the API's meme representation.
type Meme struct {
	ID          uint       `json:"id"`
	URL         string     `json:"url"`
	Platform    string     `json:"platform"`
	VideoID     string     `json:"videoId"`
	Votes       int        `json:"votes"`
	Description *string    `json:"description"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	AdminNotes  *string    `json:"adminNotes"`
	ReviewedBy  *string    `json:"reviewedBy"`
	ReviewedAt  *time.Time `json:"reviewedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Score is one leaderboard run.
type Score struct {
	ID               uint      `json:"id"`
	PlayerName       string    `json:"playerName"`
	Score            int       `json:"score"`
	Time             float64   `json:"time"`
	LettersPerSecond float64   `json:"lettersPerSecond"`
	Mistakes         int       `json:"mistakes"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Admin is a moderator account.
type Admin struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminSession is the result of a login. Admin calls take it explicitly.
type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     Admin     `json:"admin"`
}

// Expired reports whether the session is past its expiry at now.
func (s *AdminSession) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// NewMeme is a public submission.
type NewMeme struct {
	URL         string   `json:"url"`
	Platform    string   `json:"platform"`
	VideoID     string   `json:"videoId"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// DiscoverOptions filters a discovery page. Zero values use the server defaults.
type DiscoverOptions struct {
	Category  string
	Platform  string
	DateRange string
	Search    string
	Page      int
	Limit     int
}

// NewScore is a finished typing game run. Every field is sent, including zeros.
type NewScore struct {
	PlayerName       string  `json:"playerName"`
	Score            int     `json:"score"`
	Time             float64 `json:"time"`
	LettersPerSecond float64 `json:"lettersPerSecond"`
	Mistakes         int     `json:"mistakes"`
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("spincat: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("spincat: %d: %s", e.Status, e.Message)
}

// HasMore reports whether another page may follow one that returned n items
// for the requested limit. A full page means "maybe", a short page means "no".
func HasMore(n, limit int) bool {
	return limit > 0 && n >= limit
}

// Client talks to one API base URL, e.g. "http://localhost:8375/api".
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitMeme submits a meme for moderation.
func (c *Client) SubmitMeme(ctx context.Context, m NewMeme) (*Meme, error) {
	var out Meme
	if err := c.call(ctx, http.MethodPost, "/memes", nil, m, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Discover returns one page of approved memes.
func (c *Client) Discover(ctx context.Context, opts DiscoverOptions) ([]Meme, error) {
	q := url.Values{}
	setQuery(q, "category", opts.Category)
	setQuery(q, "platform", opts.Platform)
	setQuery(q, "dateRange", opts.DateRange)
	setQuery(q, "search", opts.Search)
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)

	var out []Meme
	if err := c.call(ctx, http.MethodGet, "/memes/discover", q, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrendingTags returns the most used tags of the past week.
func (c *Client) TrendingTags(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.call(ctx, http.MethodGet, "/memes/trending-tags", nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Vote casts an "up" or "down" vote and returns the updated meme.
func (c *Client) Vote(ctx context.Context, memeID uint, voteType string) (*Meme, error) {
	var out Meme
	path := fmt.Sprintf("/memes/%d/vote", memeID)
	if err := c.call(ctx, http.MethodPost, path, nil, map[string]string{"type": voteType}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login opens an admin session.
func (c *Client) Login(ctx context.Context, username, password string) (*AdminSession, error) {
	var out AdminSession
	body := map[string]string{"username": username, "password": password}
	if err := c.call(ctx, http.MethodPost, "/admin/login", nil, body, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingMemes returns a page of the moderation queue, oldest first.
func (c *Client) PendingMemes(ctx context.Context, session *AdminSession, page, limit int) ([]Meme, error) {
	q := url.Values{}
	setInt(q, "page", page)
	setInt(q, "limit", limit)

	var out []Meme
	if err := c.call(ctx, http.MethodGet, "/admin/memes/pending", q, nil, session, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Review approves or rejects a meme. notes may be nil.
func (c *Client) Review(ctx context.Context, session *AdminSession, memeID uint, status string, notes *string) (*Meme, error) {
	body := struct {
		Status     string  `json:"status"`
		AdminNotes *string `json:"adminNotes,omitempty"`
	}{status, notes}

	var out Meme
	path := fmt.Sprintf("/admin/memes/%d/review", memeID)
	if err := c.call(ctx, http.MethodPost, path, nil, body, session, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAsAdmin submits a meme directly. An empty status means approved.
func (c *Client) SubmitAsAdmin(ctx context.Context, session *AdminSession, m NewMeme, status string) (*Meme, error) {
	body := struct {
		NewMeme
		Status string `json:"status,omitempty"`
	}{m, status}

	var out Meme
	if err := c.call(ctx, http.MethodPost, "/admin/memes", nil, body, session, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitScore records a finished run.
func (c *Client) SubmitScore(ctx context.Context, s NewScore) (*Score, error) {
	var out Score
	if err := c.call(ctx, http.MethodPost, "/scores", nil, s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard returns each player's best run.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]Score, error) {
	q := url.Values{}
	setInt(q, "limit", limit)

	var out []Score
	if err := c.call(ctx, http.MethodGet, "/scores/leaderboard", q, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func setQuery(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

func (c *Client) call(ctx context.Context, method, path string, q url.Values, body any, session *AdminSession, out any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Code: errResp.Code, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
