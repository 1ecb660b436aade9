// Package qglide talks to the hosted QGlide backend on behalf of the
// operator and turns its loosely shaped JSON into canonical models.
package qglide

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/session"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/envelope"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/metrics"
)

const maxResponseBytes = 10 << 20

type Config struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

// Client is safe for concurrent use. The bearer token is read from the
// session store on every call, never cached.
type Client struct {
	baseURL  string
	anonKey  string
	http     *http.Client
	store    session.Store
	log      logger.Logger
	tr       Transformer
	resolver *envelope.Resolver
}

type Option func(*Client)

// WithHTTPClient replaces the default traced http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTransformer(t Transformer) Option {
	return func(c *Client) { c.tr = t }
}

func New(cfg Config, store session.Store, log logger.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		anonKey: cfg.AnonKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		store:    store,
		log:      log,
		tr:       NewTransformer(),
		resolver: envelope.NewResolver(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session exposes the token store the client reads from.
func (c *Client) Session() session.Store {
	return c.store
}

type request struct {
	method   string
	endpoint string
	query    url.Values
	body     any
	accept   string
	public   bool
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// token returns the stored bearer token. A missing token fails before any
// network traffic.
func (c *Client) token(ctx context.Context) (string, error) {
	tok, err := c.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", types.ErrUnauthenticated
	}
	return tok, nil
}

// do sends one request. Non-2xx answers become *APIError, transport
// failures *NetworkError. Nothing is retried.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	var bearer string
	if !req.public {
		tok, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		bearer = tok
	}

	target := c.baseURL + req.endpoint
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	accept := req.accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.anonKey != "" {
		httpReq.Header.Set("apikey", c.anonKey)
	}
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.RecordUpstream(req.endpoint, "network", time.Since(start))
		return nil, &NetworkError{Endpoint: req.endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.RecordUpstream(req.endpoint, "network", time.Since(start))
		return nil, &NetworkError{Endpoint: req.endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordUpstream(req.endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))
		return nil, newAPIError(req.endpoint, resp.StatusCode, data)
	}
	metrics.RecordUpstream(req.endpoint, "ok", time.Since(start))

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// doJSON is do plus decoding. An empty body decodes to nil.
func (c *Client) doJSON(ctx context.Context, req request) (any, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	decoded, err := envelope.Decode(resp.body)
	if err != nil {
		return nil, &APIError{
			Endpoint: req.endpoint,
			Status:   http.StatusBadGateway,
			Message:  "backend returned malformed JSON",
		}
	}
	return decoded, nil
}

// fail wraps err with the operation name and the upstream log context.
func fail(ctx context.Context, op string, err error) error {
	ctx = wrap.WithAction(ctx, types.ActionUpstreamRequest)
	return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
}
