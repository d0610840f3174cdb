// Package backend is the HTTP client for the marketplace REST API. Every call
// shares one cookie jar so the session cookies set by sign-in travel with
// later requests, the way a browser sends credentials.
package backend

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carjai/marketplace-client/internal/api/metrics"
)

const (
	tracerName      = "github.com/carjai/marketplace-client/backend"
	userAgent       = "carjai-cli"
	requestIDHeader = "X-Request-ID"
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	AdminPrefix string
	Jar         http.CookieJar
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client issues requests against the backend and decodes its
// {success, data, message} envelope.
type Client struct {
	baseURL     string
	adminPrefix string
	http        *http.Client
	tracer      trace.Tracer
	log         zerolog.Logger
}

func New(opts Options, log zerolog.Logger) *Client {
	prefix := "/" + strings.Trim(opts.AdminPrefix, "/")
	if prefix == "/" {
		prefix = "/admin"
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		adminPrefix: prefix,
		http: &http.Client{
			Jar:       opts.Jar,
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		tracer: otel.Tracer(tracerName),
		log:    log,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the standard response wrapper. Data stays raw until the
// caller's target type is known.
type envelope struct {
	Success           *bool           `json:"success"`
	Data              json.RawMessage `json:"data"`
	Message           json.RawMessage `json:"message"`
	WouldBlockSession *bool           `json:"would_block_session"`
}

func (e *envelope) message() string {
	if e == nil {
		return ""
	}
	return jsonString(e.Message)
}

func (e *envelope) rejected() bool {
	return e != nil && e.Success != nil && !*e.Success
}

// succeeded reports an explicit success:true.
func (e *envelope) succeeded() bool {
	return e != nil && e.Success != nil && *e.Success
}

// filePart is one file field of a multipart upload.
type filePart struct {
	field    string
	filename string
	content  io.Reader
}

type request struct {
	method string
	path   string
	query  url.Values
	json   any
	file   *filePart
	// rejected is the message used when a 2xx reply says success=false
	// without explaining why.
	rejected string
}

// do sends req and decodes the response into out. When the body is an
// object carrying a "data" key, only data is decoded into out; otherwise the
// whole body is. An empty body decodes to nothing. The envelope is returned
// for callers that need top-level fields.
func (c *Client) do(ctx context.Context, req request, out any) (*envelope, error) {
	ctx, span := c.tracer.Start(ctx, req.method+" "+req.path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.path", req.path),
		),
	)
	defer span.End()

	start := time.Now()
	env, status, err := c.roundTrip(ctx, req, out)
	metrics.BackendRequestDuration.WithLabelValues(req.method).Observe(time.Since(start).Seconds())

	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		kind := string(KindUnknown)
		var be *Error
		if errors.As(err, &be) {
			kind = string(be.Kind)
		}
		metrics.BackendRequestsTotal.WithLabelValues(req.method, kind).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Debug().Err(err).Str("method", req.method).Str("path", req.path).Int("status", status).Msg("backend call failed")
		return env, err
	}
	metrics.BackendRequestsTotal.WithLabelValues(req.method, "ok").Inc()
	return env, nil
}

func (c *Client) roundTrip(ctx context.Context, req request, out any) (*envelope, int, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, 0, &Error{Kind: KindUnknown, Code: "request", Message: err.Error(), Err: err}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, httpError(resp.StatusCode, raw)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, resp.StatusCode, nil
	}

	var env *envelope
	payload := raw
	if raw[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, resp.StatusCode, decodeError(resp.StatusCode, err)
		}
		env = &envelope{}
		if err := json.Unmarshal(raw, env); err != nil {
			return nil, resp.StatusCode, decodeError(resp.StatusCode, err)
		}
		if data, ok := fields["data"]; ok {
			payload = data
		}
	}

	if env.rejected() {
		return env, resp.StatusCode, rejectedError(resp.StatusCode, env.message(), cmp.Or(req.rejected, "request failed"))
	}

	if out != nil && len(payload) > 0 && !bytes.Equal(payload, []byte("null")) {
		if err := json.Unmarshal(payload, out); err != nil {
			return env, resp.StatusCode, decodeError(resp.StatusCode, err)
		}
	}
	return env, resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.file != nil:
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		part, err := mw.CreateFormFile(req.file.field, req.file.filename)
		if err != nil {
			return nil, fmt.Errorf("multipart: %w", err)
		}
		if _, err := io.Copy(part, req.file.content); err != nil {
			return nil, fmt.Errorf("multipart: %w", err)
		}
		if err := mw.Close(); err != nil {
			return nil, fmt.Errorf("multipart: %w", err)
		}
		body, contentType = buf, mw.FormDataContentType()
	case req.json != nil:
		b, err := json.Marshal(req.json)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set(requestIDHeader, uuid.NewString())
	return httpReq, nil
}

func (c *Client) admin(path string) string {
	return c.adminPrefix + path
}
