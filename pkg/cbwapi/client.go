// Package cbwapi talks to the Cyberwatch REST API. Every call is signed with
// the account's API key pair and every response body is mapped onto
// cbwobject values.
package cbwapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cyberwatch/cbw-go/pkg/auth"
	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
	"github.com/cyberwatch/cbw-go/pkg/httpclient"
)

const (
	// APIPrefix is prepended to every resource path of the current API.
	APIPrefix = "/api/v3"

	defaultTimeout  = 30 * time.Second
	defaultPageSize = 100
	contentTypeJSON = "application/json"
	bodySnippetSize = 512
)

// Config holds what a Client needs to reach one Cyberwatch instance.
type Config struct {
	URL       string
	APIKey    string
	SecretKey string
	VerifySSL bool
	Timeout   time.Duration
}

// Observer receives one notification per HTTP exchange. status is 0 when
// the request never got an answer.
type Observer interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
}

// Client issues signed requests. It holds no mutable state after New and
// may be shared.
type Client struct {
	base     *url.URL
	creds    auth.Credentials
	http     httpclient.Client
	log      Logger
	now      func() time.Time
	observer Observer
	pageSize int
	limiter  *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the resty transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(log Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock sets the time source used for the Date header.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithRateLimit caps outgoing requests to perSecond with the given burst.
// A non-positive rate leaves requests unthrottled.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithPageSize sets per_page for paginated listing.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// New validates cfg and builds a client. A missing or unusable URL yields a
// *ConfigurationError; empty keys are accepted and left for the server to
// reject.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		base:  base,
		creds: auth.NewCredentials(cfg.APIKey, cfg.SecretKey),
		http: httpclient.NewRestyClient(httpclient.Options{
			Timeout:   timeout,
			VerifySSL: cfg.VerifySSL,
		}),
		log:      noopLogger{},
		now:      time.Now,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &ConfigurationError{Reason: "api url is empty"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ConfigurationError{URL: raw, Reason: err.Error()}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &ConfigurationError{URL: raw, Reason: "scheme and host are required"}
	}
	// RawPath keeps the caller's escaping; the signed URI must match the wire.
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = strings.TrimRight(u.RawPath, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the address the client was built for.
func (c *Client) BaseURL() string { return c.base.String() }

// Do performs one signed request and maps the response. path is relative to
// the base URL and already carries its API prefix. body, when non-nil, is
// sent as JSON.
func (c *Client) Do(ctx context.Context, method, path string, query Params, body any) (cbwobject.Value, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	requestURI := c.base.EscapedPath() + path
	if q := query.Encode(); q != "" {
		requestURI += "?" + q
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return cbwobject.Null(), fmt.Errorf("%s %s: rate limit: %w", method, requestURI, err)
		}
	}

	var payload []byte
	contentType := ""
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return cbwobject.Null(), fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		payload = raw
		contentType = contentTypeJSON
	}

	signed := auth.Sign(auth.Request{
		Method:      method,
		Path:        requestURI,
		ContentType: contentType,
		Body:        payload,
	}, c.creds, c.now())

	headers := signed.Map()
	headers["Accept"] = contentTypeJSON
	if contentType != "" {
		headers["Content-Type"] = contentType
	}

	c.log.DebugObj("cbw api request", "cbw_api_request", map[string]any{
		"method": method,
		"path":   requestURI,
	})

	start := time.Now()
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     c.base.Scheme + "://" + c.base.Host + requestURI,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		c.observe(method, 0, time.Since(start))
		return cbwobject.Null(), fmt.Errorf("%s %s: %w", method, requestURI, err)
	}
	c.observe(method, resp.StatusCode(), time.Since(start))

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return cbwobject.Null(), &APIError{
			Method:     method,
			Path:       requestURI,
			StatusCode: status,
			Body:       bodySnippet(resp.Body()),
		}
	}

	value, err := cbwobject.Parse(resp.Body())
	if err != nil {
		return cbwobject.Null(), fmt.Errorf("%s %s: decode response: %w", method, requestURI, err)
	}
	return value, nil
}

func (c *Client) observe(method string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, status, elapsed)
	}
}

func bodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > bodySnippetSize {
		body = body[:bodySnippetSize]
	}
	return strings.TrimSpace(string(body))
}

// itemPath joins a collection path and an identifier. It reports false when
// the identifier is blank.
func itemPath(collection, id string, rest ...string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	p := collection + "/" + url.PathEscape(id)
	for _, seg := range rest {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			return "", false
		}
		p += "/" + url.PathEscape(seg)
	}
	return p, true
}
