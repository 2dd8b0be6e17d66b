// Package sky provides bearer-token REST access to the Blackbaud SKY API
// surface the reconciliation engine consumes: per-category constituent
// reads, and POST/PATCH writes with transient-failure retry and rate
// limiting.
package sky

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/alum-office/crmsync-cli/internal/resilience"
)

// Client defines the SKY API operations used by the reconciliation engine.
type Client interface {
	ListEmailAddresses(ctx context.Context, constituentID string) ([]EmailAddress, error)
	ListPhones(ctx context.Context, constituentID string) ([]Phone, error)
	ListRelationships(ctx context.Context, constituentID string) ([]Relationship, error)
	ListAddresses(ctx context.Context, constituentID string) ([]Address, error)
	ListEducations(ctx context.Context, constituentID string) ([]Education, error)
	ListOnlinePresences(ctx context.Context, constituentID string) ([]OnlinePresence, error)
	GetConstituent(ctx context.Context, constituentID string) (*Constituent, error)
	ListConstituentCodes(ctx context.Context, constituentID string) ([]ConstituentCode, error)

	Post(ctx context.Context, path string, payload map[string]any) error
	Patch(ctx context.Context, path string, payload map[string]any) error
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second rate limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithRetry overrides the default retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithCooldown sets the fixed sleep after every CRM call. The SKY API is
// rate-limited per subscription; the cooldown keeps sequential runs under it.
func WithCooldown(d time.Duration) Option {
	return func(c *httpClient) {
		c.cooldown = d
	}
}

type httpClient struct {
	baseURL         string
	subscriptionKey string
	tokens          TokenSource
	http            *http.Client
	limiter         *rate.Limiter
	retry           resilience.RetryConfig
	cooldown        time.Duration
}

const defaultBaseURL = "https://api.sky.blackbaud.com"

// NewClient creates a SKY API client.
func NewClient(subscriptionKey string, tokens TokenSource, opts ...Option) Client {
	c := &httpClient{
		baseURL:         defaultBaseURL,
		subscriptionKey: subscriptionKey,
		tokens:          tokens,
		retry:           resilience.DefaultRetryConfig(),
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ListEmailAddresses(ctx context.Context, constituentID string) ([]EmailAddress, error) {
	body, err := c.do(ctx, http.MethodGet, constituentSubPath(constituentID, "emailaddresses"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[EmailAddress](body)
}

func (c *httpClient) ListPhones(ctx context.Context, constituentID string) ([]Phone, error) {
	body, err := c.do(ctx, http.MethodGet, constituentSubPath(constituentID, "phones"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Phone](body)
}

func (c *httpClient) ListRelationships(ctx context.Context, constituentID string) ([]Relationship, error) {
	body, err := c.do(ctx, http.MethodGet, constituentSubPath(constituentID, "relationships"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Relationship](body)
}

func (c *httpClient) ListAddresses(ctx context.Context, constituentID string) ([]Address, error) {
	body, err := c.do(ctx, http.MethodGet, constituentSubPath(constituentID, "addresses"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Address](body)
}

func (c *httpClient) ListEducations(ctx context.Context, constituentID string) ([]Education, error) {
	body, err := c.do(ctx, http.MethodGet, constituentSubPath(constituentID, "educations"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Education](body)
}

func (c *httpClient) ListOnlinePresences(ctx context.Context, constituentID string) ([]OnlinePresence, error) {
	body, err := c.do(ctx, http.MethodGet, constituentSubPath(constituentID, "onlinepresences"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[OnlinePresence](body)
}

func (c *httpClient) GetConstituent(ctx context.Context, constituentID string) (*Constituent, error) {
	body, err := c.do(ctx, http.MethodGet, ConstituentPath(constituentID), nil)
	if err != nil {
		return nil, err
	}
	return decodeObject[Constituent](body)
}

func (c *httpClient) ListConstituentCodes(ctx context.Context, constituentID string) ([]ConstituentCode, error) {
	body, err := c.do(ctx, http.MethodGet, constituentSubPath(constituentID, "constituentcodes"), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[ConstituentCode](body)
}

func (c *httpClient) Post(ctx context.Context, path string, payload map[string]any) error {
	_, err := c.do(ctx, http.MethodPost, path, payload)
	return err
}

func (c *httpClient) Patch(ctx context.Context, path string, payload map[string]any) error {
	_, err := c.do(ctx, http.MethodPatch, path, payload)
	return err
}

// do performs one authenticated request with rate limiting and retry, then
// applies the post-call cooldown. The response body is returned raw so the
// caller picks the parse strategy.
func (c *httpClient) do(ctx context.Context, method, path string, payload map[string]any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "sky: rate limit")
		}
	}

	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, eris.Wrapf(err, "sky: marshal %s %s", method, path)
		}
	}

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.roundTrip(ctx, method, path, reqBody)
	})
	if err != nil {
		return nil, err
	}

	c.sleep(ctx)
	return body, nil
}

func (c *httpClient) roundTrip(ctx context.Context, method, path string, reqBody []byte) ([]byte, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, eris.Wrapf(err, "sky: create request %s %s", method, path)
	}
	req.Header.Set("Bb-Api-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "sky: send %s %s", method, path)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "sky: read response %s %s", method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := eris.Errorf("sky: %s %s returned %d: %s", method, path, resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	return respBody, nil
}

func (c *httpClient) sleep(ctx context.Context) {
	if c.cooldown <= 0 {
		return
	}
	timer := time.NewTimer(c.cooldown)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
