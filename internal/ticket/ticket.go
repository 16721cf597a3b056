// Package ticket obtains the jsapi_ticket that authentication signatures
// are computed from.
//
// The ticket is issued in exchange for a tenant_access_token, which in
// turn is issued for the app's id and secret. Both are cached until
// shortly before they expire.
package ticket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/internal/cache"
	"github.com/agentstation/larkdocs/internal/transport"
	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/logging"
)

// Ticket is a credential and the moment it stops being valid.
type Ticket struct {
	Value     string   `json:"value" yaml:"value"`
	ExpiresAt utc.Time `json:"expires_at" yaml:"expires_at"`
}

// Expired reports whether the ticket is no longer valid at now.
func (t Ticket) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt.Time)
}

// Credentials identify an internal app.
type Credentials struct {
	AppID     string
	AppSecret string
}

// Source is anything that can hand out a current jsapi ticket.
type Source interface {
	JSAPITicket(ctx context.Context) (Ticket, error)
}

const (
	keyTenantToken = "tenant_access_token"
	keyJSAPITicket = "jsapi_ticket"
)

// Client fetches and caches tickets from the open platform.
type Client struct {
	creds  Credentials
	http   *transport.Client
	cache  *cache.Cache[Ticket]
	now    func() time.Time
	margin time.Duration
	logger *zerolog.Logger

	// refresh serializes fetches so concurrent callers share one request
	refresh sync.Mutex

	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the open platform host, for example
// constants.LarkSuiteBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the http.Client requests are sent with.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTransport replaces the HTTP transport client.
func WithTransport(tc *transport.Client) Option {
	return func(c *Client) {
		c.http = tc
	}
}

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithExpiryMargin sets how long before expiry a cached value is dropped.
func WithExpiryMargin(d time.Duration) Option {
	return func(c *Client) {
		c.margin = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a ticket client for creds.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if creds.AppID == "" {
		return nil, errors.NewConfigError("ticket", "app id is required", nil)
	}
	if creds.AppSecret == "" {
		return nil, errors.NewConfigError("ticket", "app secret is required", nil)
	}

	c := &Client{
		creds:   creds,
		cache:   cache.New[Ticket](time.Minute),
		now:     time.Now,
		margin:  constants.ExpiryMargin,
		logger:  logging.Default(),
		baseURL: constants.LarkBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		topts := []transport.Option{transport.WithBaseURL(c.baseURL)}
		if c.httpClient != nil {
			topts = append(topts, transport.WithHTTPClient(c.httpClient))
		}
		c.http = transport.New(&transport.BearerAuth{}, topts...)
	}
	return c, nil
}

// AppID returns the app the client authenticates as.
func (c *Client) AppID() string {
	return c.creds.AppID
}

// Invalidate drops every cached value, forcing the next call to fetch.
func (c *Client) Invalidate() {
	c.cache.Clear()
}

// TenantAccessToken returns a valid tenant_access_token.
func (c *Client) TenantAccessToken(ctx context.Context) (Ticket, error) {
	if t, ok := c.cached(keyTenantToken); ok {
		return t, nil
	}

	c.refresh.Lock()
	defer c.refresh.Unlock()
	return c.tenantTokenLocked(ctx)
}

// JSAPITicket returns a valid jsapi_ticket.
func (c *Client) JSAPITicket(ctx context.Context) (Ticket, error) {
	if t, ok := c.cached(keyJSAPITicket); ok {
		return t, nil
	}

	c.refresh.Lock()
	defer c.refresh.Unlock()

	if t, ok := c.cached(keyJSAPITicket); ok {
		return t, nil
	}

	token, err := c.tenantTokenLocked(ctx)
	if err != nil {
		return Ticket{}, err
	}

	resp, err := c.http.PostJSON(ctx, constants.JSAPITicketPath, struct{}{}, token.Value)
	if err != nil {
		return Ticket{}, errors.WrapResource("fetch", "jsapi_ticket", c.creds.AppID, err)
	}
	var body ticketResponse
	if err := transport.DecodeResponse(resp, constants.JSAPITicketPath, &body); err != nil {
		return Ticket{}, err
	}
	if body.Data.Ticket == "" {
		return Ticket{}, &errors.APIError{
			Provider: transport.Provider,
			Endpoint: constants.JSAPITicketPath,
			Message:  "response carried no ticket",
		}
	}

	t := c.store(keyJSAPITicket, body.Data.Ticket, body.Data.ExpireIn)
	c.logger.Debug().Str("app_id", c.creds.AppID).Time("expires_at", t.ExpiresAt.Time).Msg("Fetched jsapi_ticket")
	return t, nil
}

func (c *Client) tenantTokenLocked(ctx context.Context) (Ticket, error) {
	if t, ok := c.cached(keyTenantToken); ok {
		return t, nil
	}

	req := tokenRequest{AppID: c.creds.AppID, AppSecret: c.creds.AppSecret}
	resp, err := c.http.PostJSON(ctx, constants.TenantTokenPath, req, "")
	if err != nil {
		return Ticket{}, errors.WrapResource("fetch", "tenant_access_token", c.creds.AppID, err)
	}
	var body tokenResponse
	if err := transport.DecodeResponse(resp, constants.TenantTokenPath, &body); err != nil {
		// a business code here means the app id or secret was refused
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && apiErr.Code != 0 && apiErr.StatusCode == http.StatusOK {
			return Ticket{}, errors.NewAuthenticationError(transport.Provider, "app_secret", "tenant_access_token request rejected", err)
		}
		return Ticket{}, err
	}

	t := c.store(keyTenantToken, body.TenantAccessToken, body.Expire)
	c.logger.Debug().Str("app_id", c.creds.AppID).Time("expires_at", t.ExpiresAt.Time).Msg("Fetched tenant_access_token")
	return t, nil
}

func (c *Client) cached(key string) (Ticket, bool) {
	t, ok := c.cache.Get(key)
	if !ok || t.Expired(c.now().Add(c.margin)) {
		return Ticket{}, false
	}
	return t, true
}

func (c *Client) store(key, value string, expireSeconds int) Ticket {
	now := c.now()
	lifetime := time.Duration(expireSeconds) * time.Second
	t := Ticket{Value: value, ExpiresAt: utc.Time{Time: now.Add(lifetime).UTC()}}
	c.cache.Set(key, t, lifetime-c.margin)
	return t
}

type tokenRequest struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
}

type tokenResponse struct {
	transport.Envelope
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

type ticketResponse struct {
	transport.Envelope
	Data struct {
		Ticket   string `json:"ticket"`
		ExpireIn int    `json:"expire_in"`
	} `json:"data"`
}
