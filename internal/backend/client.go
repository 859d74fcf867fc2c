// Package backend is a typed client for the platform's REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/delez/internal/model"
)

// DefaultTimeout bounds every backend call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxErrorBody limits how much of a failed response is kept in the error.
const maxErrorBody = 512

type traceKey struct{}

// WithTraceID returns a context whose backend calls carry the trace id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// TraceID returns the trace id stored by WithTraceID.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// request describes one backend call.
type request struct {
	op     string
	method string
	path   string
	token  string
	body   any
	header http.Header
	// want is the required status code; 0 accepts any 2xx.
	want int
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return &Error{Op: r.op, Kind: KindDecode, Message: "encoding request", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return &Error{Op: r.op, Kind: KindNetwork, Message: "building request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if traceID := TraceID(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: r.op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if r.want != 0 {
		ok = resp.StatusCode == r.want
	}
	if !ok {
		return &Error{
			Op:         r.op,
			Kind:       statusKind(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: r.op, Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// errorMessage extracts a readable message from a failed response body.
func errorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}

func requireToken(op, token string) error {
	if token == "" {
		return &Error{Op: op, Kind: KindMissingToken}
	}
	return nil
}

// ListProperties handles GET /api/properties.
func (c *Client) ListProperties(ctx context.Context) ([]model.Property, error) {
	var props []model.Property
	err := c.do(ctx, request{op: "list properties", method: http.MethodGet, path: "/api/properties"}, &props)
	return props, err
}

// FeaturedProperties handles GET /api/properties/featured.
func (c *Client) FeaturedProperties(ctx context.Context) ([]model.Property, error) {
	var props []model.Property
	err := c.do(ctx, request{op: "featured properties", method: http.MethodGet, path: "/api/properties/featured"}, &props)
	return props, err
}

// TrendingProperties handles GET /api/properties/trending.
func (c *Client) TrendingProperties(ctx context.Context) ([]model.Property, error) {
	var props []model.Property
	err := c.do(ctx, request{op: "trending properties", method: http.MethodGet, path: "/api/properties/trending"}, &props)
	return props, err
}

// GetProperty handles GET /api/properties/{id}.
func (c *Client) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	var p model.Property
	err := c.do(ctx, request{
		op:     "get property",
		method: http.MethodGet,
		path:   "/api/properties/" + url.PathEscape(id),
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Notifications handles GET /api/users/notifications/{id}.
func (c *Client) Notifications(ctx context.Context, userID string) (*model.NotificationFeed, error) {
	var feed model.NotificationFeed
	err := c.do(ctx, request{
		op:     "notifications",
		method: http.MethodGet,
		path:   "/api/users/notifications/" + url.PathEscape(userID),
	}, &feed)
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/users/login.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	var id model.Identity
	err := c.do(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/api/users/login",
		body:   loginRequest{Email: email, Password: password},
	}, &id)
	if err != nil {
		return nil, err
	}
	if id.UserID == "" || id.Token == "" {
		return nil, &Error{Op: "login", Kind: KindDecode, Message: "identity without id or token"}
	}
	return &id, nil
}

// Logout handles POST /api/users/logout.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, request{
		op:     "logout",
		method: http.MethodPost,
		path:   "/api/users/logout",
		token:  token,
		body:   struct{}{},
	}, nil)
}

// Investments handles GET /api/users/{id}/investments.
func (c *Client) Investments(ctx context.Context, token, userID string) ([]model.Investment, error) {
	if err := requireToken("investments", token); err != nil {
		return nil, err
	}
	var list []model.Investment
	err := c.do(ctx, request{
		op:     "investments",
		method: http.MethodGet,
		path:   "/api/users/" + url.PathEscape(userID) + "/investments",
		token:  token,
	}, &list)
	return list, err
}

// AddProperty handles POST /api/properties/admin/add. The backend answers
// 201 on success; any other status is an error.
func (c *Client) AddProperty(ctx context.Context, token string, property any) error {
	if err := requireToken("add property", token); err != nil {
		return err
	}
	return c.do(ctx, request{
		op:     "add property",
		method: http.MethodPost,
		path:   "/api/properties/admin/add",
		token:  token,
		body:   property,
		want:   http.StatusCreated,
	}, nil)
}

// CreateInvestment handles POST /api/investments. The idempotency key lets
// the backend recognise a retried purchase.
func (c *Client) CreateInvestment(ctx context.Context, token, idempotencyKey string, req model.InvestmentRequest) (*model.Investment, error) {
	if err := requireToken("create investment", token); err != nil {
		return nil, err
	}
	var inv model.Investment
	err := c.do(ctx, request{
		op:     "create investment",
		method: http.MethodPost,
		path:   "/api/investments",
		token:  token,
		body:   req,
		header: http.Header{"Idempotency-Key": []string{idempotencyKey}},
	}, &inv)
	if err != nil {
		return nil, err
	}
	if inv.ID == "" {
		return nil, &Error{Op: "create investment", Kind: KindDecode, Message: fmt.Sprintf("no id in response for %s", req.PropertyID)}
	}
	return &inv, nil
}
