package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/session"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client talks to the HomeHero REST API. A Client obtained from For is
// bound to one session: its token goes on every call and a 401 from the
// API invalidates that session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	sess       *session.Session
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// For returns a copy of c bound to s. A nil session yields an anonymous
// client, good only for login and register.
func (c *Client) For(s *session.Session) *Client {
	bound := *c
	bound.sess = s
	return &bound
}

func (c *Client) Session() *session.Session {
	return c.sess
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.sess != nil && c.sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.sess.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(req, err)
	}
	defer resp.Body.Close()

	c.log.Debug("homehero api",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.statusError(req.Context(), resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &httperr.APIError{
			Kind:    httperr.KindServer,
			Status:  resp.StatusCode,
			Message: httperr.DefaultMessage(httperr.KindServer),
			Err:     fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func (c *Client) transportError(req *http.Request, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		c.log.Warn("homehero api timeout", zap.String("path", req.URL.Path), zap.Error(err))
		return httperr.Timeout(err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	c.log.Warn("homehero api unreachable", zap.String("path", req.URL.Path), zap.Error(err))
	return httperr.Network(err)
}

// statusError classifies a non-2xx response. A 401 invalidates the bound
// session; only the call that actually removed it asks for a redirect.
func (c *Client) statusError(ctx context.Context, status int, body []byte) error {
	ae := httperr.Classify(status, body)

	switch ae.Kind {
	case httperr.KindUnauthorized:
		if c.sess != nil {
			ae.Redirect = c.sess.Invalidate(context.WithoutCancel(ctx))
			ae.Message = httperr.DefaultMessage(httperr.KindUnauthorized)
		}
	case httperr.KindForbidden:
		c.log.Warn("homehero api forbidden", zap.Int("status", status))
	case httperr.KindServer:
		c.log.Error("homehero api server error", zap.Int("status", status), zap.String("message", ae.Message))
	}
	return ae
}

// pathID escapes an id for use as a path segment.
func pathID(id string) string {
	return url.PathEscape(id)
}
