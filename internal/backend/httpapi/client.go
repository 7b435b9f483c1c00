// Package httpapi implements backend.Client over the GameScope REST API.
package httpapi

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
	"sync"
	"time"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/backend"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 15 * time.Second

// Client talks to a GameScope server. The bearer token is set by
// CreateSession and Register, or up front with SetToken.
//
// Thread-safety: all methods are safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

var _ backend.Client = (*Client)(nil)

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api/v1". A nil httpClient gets DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// StatusError is the server's answer to a failed request.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// statusKinds maps the statuses the server uses to client error kinds.
// Anything else is left to the message classifier.
var statusKinds = map[int]apperr.Kind{
	http.StatusBadRequest:          apperr.Validation,
	http.StatusUnauthorized:        apperr.Unauthorized,
	http.StatusForbidden:           apperr.PermissionDenied,
	http.StatusNotFound:            apperr.NotFound,
	http.StatusUnprocessableEntity: apperr.Validation,
	http.StatusTooManyRequests:     apperr.RateLimited,
	http.StatusBadGateway:          apperr.Network,
	http.StatusServiceUnavailable:  apperr.Network,
	http.StatusGatewayTimeout:      apperr.Network,
}

func statusError(code int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	se := &StatusError{Code: code, Message: msg}

	kind, ok := statusKinds[code]
	if !ok {
		kind = apperr.ClassifyMessage(se.Error())
	}
	return &apperr.Error{Kind: kind, Message: msg, Err: se}
}

// do sends one request and decodes a 2xx JSON body into out, if non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &apperr.Error{Kind: apperr.Network, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperr.Error{Kind: apperr.Network, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      backend.User `json:"user"`
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, name, email, password string) (backend.User, error) {
	var resp sessionResponse
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &resp); err != nil {
		return backend.User{}, err
	}
	c.SetToken(resp.Token)
	return resp.User, nil
}

func (c *Client) CreateSession(ctx context.Context, email, password string) (backend.User, error) {
	var resp sessionResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/sessions", nil, in, &resp); err != nil {
		return backend.User{}, err
	}
	c.SetToken(resp.Token)
	return resp.User, nil
}

// DeleteSession revokes the token. The local token is dropped even when the
// server already considers it expired.
func (c *Client) DeleteSession(ctx context.Context) error {
	err := c.do(ctx, http.MethodDelete, "/auth/sessions", nil, nil, nil)
	if err == nil || apperr.IsUnauthorized(err) {
		c.SetToken("")
	}
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (backend.User, error) {
	var user backend.User
	if err := c.do(ctx, http.MethodGet, "/account", nil, nil, &user); err != nil {
		return backend.User{}, err
	}
	return user, nil
}

func (c *Client) UpdateDisplayName(ctx context.Context, name string) (backend.User, error) {
	var user backend.User
	if err := c.do(ctx, http.MethodPatch, "/account/name", nil, map[string]string{"name": name}, &user); err != nil {
		return backend.User{}, err
	}
	return user, nil
}

func documentsPath(collection string) string {
	return "/collections/" + url.PathEscape(collection) + "/documents"
}

func documentPath(collection, id string) string {
	return documentsPath(collection) + "/" + url.PathEscape(id)
}

// listQuery encodes q the way the server reads it: where[field]=value and
// order_desc=field.
func listQuery(q backend.Query) url.Values {
	v := url.Values{}
	for _, f := range q.Filters {
		v.Set("where["+f.Field+"]", fmt.Sprint(f.Value))
	}
	if q.OrderDesc != "" {
		v.Set("order_desc", q.OrderDesc)
	}
	return v
}

func (c *Client) ListDocuments(ctx context.Context, collection string, q backend.Query) ([]backend.Document, error) {
	var resp struct {
		Documents []backend.Document `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, documentsPath(collection), listQuery(q), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

func (c *Client) GetDocument(ctx context.Context, collection, id string) (backend.Document, error) {
	if id == "" {
		return backend.Document{}, apperr.New(apperr.InvalidArgument, "", "document id is empty")
	}
	var doc backend.Document
	if err := c.do(ctx, http.MethodGet, documentPath(collection, id), nil, nil, &doc); err != nil {
		return backend.Document{}, err
	}
	return doc, nil
}

func (c *Client) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	var doc backend.Document
	in := map[string]any{"id": id, "data": data}
	if err := c.do(ctx, http.MethodPost, documentsPath(collection), nil, in, &doc); err != nil {
		return backend.Document{}, err
	}
	return doc, nil
}

func (c *Client) UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	if id == "" {
		return backend.Document{}, apperr.New(apperr.InvalidArgument, "", "document id is empty")
	}
	var doc backend.Document
	if err := c.do(ctx, http.MethodPatch, documentPath(collection, id), nil, map[string]any{"data": data}, &doc); err != nil {
		return backend.Document{}, err
	}
	return doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, collection, id string) error {
	if id == "" {
		return apperr.New(apperr.InvalidArgument, "", "document id is empty")
	}
	return c.do(ctx, http.MethodDelete, documentPath(collection, id), nil, nil, nil)
}

// IsStatus reports whether err came from a response with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
