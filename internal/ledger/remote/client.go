// Package remote is a ledger.Repository that talks to a query-over-HTTP
// endpoint: POST /auth exchanges credentials for a bearer token and
// POST /query runs one parameterized SQL statement, answering {"data": rows}.
// Multi-row mutations are sent as a single statement so each call stays
// atomic on the server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryMargin renews a token this long before it expires.
const expiryMargin = 30 * time.Second

var ErrUnauthorized = errors.New("remote: unauthorized")

type Config struct {
	URL        string
	Username   string
	Password   string
	HTTPClient *http.Client
	// Clock defaults to time.Now.
	Clock func() time.Time
}

type Client struct {
	cfg  Config
	http *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	cfg.URL = strings.TrimRight(cfg.URL, "/")

	return &Client{cfg: cfg, http: cfg.HTTPClient}
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

type queryRequest struct {
	Query      string `json:"query"`
	Parameters []any  `json:"parameters"`
}

type queryResponse struct {
	Data json.RawMessage `json:"data"`
}

// authorize returns a valid token, authenticating when there is none or the
// current one is about to expire.
func (c *Client) authorize(ctx context.Context, force bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.Clock()
	if !force && c.token != "" && (c.expiry.IsZero() || now.Add(expiryMargin).Before(c.expiry)) {
		return c.token, nil
	}

	var resp authResponse
	if err := c.post(ctx, "/auth", "", authRequest{Username: c.cfg.Username, Password: c.cfg.Password}, &resp); err != nil {
		return "", fmt.Errorf("authenticating: %w", err)
	}

	if resp.Token == "" {
		return "", fmt.Errorf("authenticating: empty token")
	}

	c.token = resp.Token
	c.expiry = tokenExpiry(resp.Token)

	return c.token, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// server is the only party that verifies it. Opaque tokens never expire
// client-side.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims

	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}

	if claims.ExpiresAt == nil {
		return time.Time{}
	}

	return claims.ExpiresAt.Time
}

// query runs one statement and decodes the data rows into out, which may be
// nil. A rejected token is renewed once.
func (c *Client) query(ctx context.Context, out any, query string, params ...any) error {
	if params == nil {
		params = []any{}
	}

	req := queryRequest{Query: query, Parameters: params}

	token, err := c.authorize(ctx, false)
	if err != nil {
		return err
	}

	var resp queryResponse

	err = c.post(ctx, "/query", token, req, &resp)
	if errors.Is(err, ErrUnauthorized) {
		if token, err = c.authorize(ctx, true); err != nil {
			return err
		}

		err = c.post(ctx, "/query", token, req, &resp)
	}

	if err != nil {
		return err
	}

	if out == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decoding rows: %w", err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s failed with status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
