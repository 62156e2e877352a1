package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/logging"
	"github.com/dmitrijs2005/attendance/internal/netx"
	"github.com/google/uuid"
)

// Session is what the gateway needs from the session store.
type Session interface {
	Credential() string
	HandleUnauthorized(ctx context.Context, credential string) bool
}

// Locator reports the user's current location.
type Locator interface {
	Location() string
}

// Response is a successful (2xx) backend response.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	RequestID   string
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type Gateway struct {
	baseURL string
	client  *http.Client
	loc     Locator
	log     logging.Logger
	session Session
}

// New returns a gateway for the backend at baseURL. A nil httpClient means
// http.DefaultClient. Bind must be called before the first request that
// should carry a credential.
func New(baseURL string, httpClient *http.Client, loc Locator, log logging.Logger) *Gateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		loc:     loc,
		log:     log.With("component", "gateway"),
	}
}

// Bind attaches the session whose credential is sent and which is told about
// 401 responses. The session store itself calls the backend through this
// gateway, so the two are wired after construction.
func (g *Gateway) Bind(s Session) {
	g.session = s
}

// Do sends one request. body, when non-nil and no Form option is given, is
// JSON-encoded. Non-2xx responses are returned as *APIError, transport
// failures wrap common.ErrUnavailable.
func (g *Gateway) Do(ctx context.Context, method, path string, body any, opts ...Option) (*Response, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	req, err := g.newRequest(ctx, method, path, body, &o)
	if err != nil {
		return nil, err
	}

	credential := o.credential
	if !o.overrideTok && g.session != nil {
		credential = g.session.Credential()
	}
	if credential != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+credential)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	ctx = logging.ContextWith(ctx, "request_id", requestID)

	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		if netx.IsTransportError(err) {
			return nil, fmt.Errorf("%s %s: %w: %v", method, path, common.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w: %v", method, path, common.ErrUnavailable, err)
	}

	g.log.Debug(ctx, "request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, raw, requestID)
		if resp.StatusCode == http.StatusUnauthorized {
			g.onUnauthorized(ctx, credential)
		}
		return nil, apiErr
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        raw,
		RequestID:   requestID,
	}, nil
}

// Call is Do followed by decoding into out. With AsBlob, out must be a
// *[]byte and receives the body unchanged. A nil out discards the body.
func (g *Gateway) Call(ctx context.Context, method, path string, body, out any, opts ...Option) error {
	resp, err := g.Do(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.blob {
		dst, ok := out.(*[]byte)
		if !ok {
			return fmt.Errorf("blob target must be *[]byte, got %T", out)
		}
		*dst = resp.Body
		return nil
	}

	return resp.Decode(out)
}

func (g *Gateway) onUnauthorized(ctx context.Context, credential string) {
	if credential == "" || g.session == nil {
		return
	}
	if g.loc != nil && g.loc.Location() == common.LoginPath {
		return
	}
	if g.session.HandleUnauthorized(ctx, credential) {
		g.log.Info(ctx, "session invalidated by 401")
	}
}

func (g *Gateway) newRequest(ctx context.Context, method, path string, body any, o *requestOptions) (*http.Request, error) {
	u, err := url.Parse(g.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("bad request url %q: %w", path, err)
	}
	if len(o.query) > 0 {
		q := u.Query()
		for k, vs := range o.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch {
	case o.form != nil:
		reader = strings.NewReader(o.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case body != nil:
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if o.blob {
		req.Header.Set("Accept", "*/*")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	return req, nil
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return errors.Is(err, common.ErrUnauthorized)
}
