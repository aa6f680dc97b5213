// Package license talks to the license server and keeps a cached verdict so
// a flaky connection does not lock the operator out mid-visit.
package license

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckResponse is the wire format of POST {base}/api/check.
type CheckResponse struct {
	Success  bool   `json:"success"`
	Expired  bool   `json:"expired,omitempty"`
	ExpiraEn string `json:"expira_en,omitempty"`
	Message  string `json:"message,omitempty"`
}

type checkRequest struct {
	Codigo string `json:"codigo"`
}

// Verdict is the locally cached outcome of a check.
type Verdict struct {
	Valid     bool      `json:"valid"`
	Expired   bool      `json:"expired"`
	ExpiraEn  string    `json:"expira_en,omitempty"`
	Message   string    `json:"message,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Client verifies the license code against the server, falling back to the
// cached verdict while offline.
type Client struct {
	baseURL string
	codigo  string
	http    *http.Client
	cache   *redis.Client
	key     string

	// RecheckInterval is how long a cached verdict stays fresh.
	RecheckInterval time.Duration
}

// NewClient builds a verifier. cache may be nil; verification then always
// goes to the network.
func NewClient(baseURL, codigo string, cache *redis.Client) *Client {
	return &Client{
		baseURL:         baseURL,
		codigo:          codigo,
		http:            &http.Client{Timeout: 10 * time.Second},
		cache:           cache,
		key:             "ficha:licencia:" + codigo,
		RecheckInterval: 6 * time.Hour,
	}
}

// Verify returns the current verdict: the cached one while fresh, otherwise a
// live check. When the server is unreachable the stale cached verdict is
// honored, so an office with intermittent connectivity keeps working.
func (c *Client) Verify(ctx context.Context) (Verdict, error) {
	if cached, ok := c.cached(ctx); ok && time.Since(cached.CheckedAt) < c.RecheckInterval {
		return cached, nil
	}

	v, err := c.check(ctx)
	if err != nil {
		if cached, ok := c.cached(ctx); ok {
			return cached, nil
		}
		return Verdict{}, fmt.Errorf("verificación de licencia: %w", err)
	}
	c.store(ctx, v)
	return v, nil
}

func (c *Client) check(ctx context.Context) (Verdict, error) {
	body, err := json.Marshal(checkRequest{Codigo: c.codigo})
	if err != nil {
		return Verdict{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/check", bytes.NewReader(body))
	if err != nil {
		return Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Verdict{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Verdict{}, fmt.Errorf("el servidor de licencias respondió %d", resp.StatusCode)
	}

	var cr CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Verdict{}, err
	}
	return Verdict{
		Valid:     cr.Success && !cr.Expired,
		Expired:   cr.Expired,
		ExpiraEn:  cr.ExpiraEn,
		Message:   cr.Message,
		CheckedAt: time.Now(),
	}, nil
}

func (c *Client) cached(ctx context.Context) (Verdict, bool) {
	if c.cache == nil {
		return Verdict{}, false
	}
	data, err := c.cache.Get(ctx, c.key).Result()
	if err != nil {
		return Verdict{}, false
	}
	var v Verdict
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return Verdict{}, false
	}
	return v, true
}

func (c *Client) store(ctx context.Context, v Verdict) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, c.key, data, 0).Err()
}
