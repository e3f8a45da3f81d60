package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-bookstore-client/cart"
	"github.com/jrsteele09/go-bookstore-client/catalog"
	"github.com/jrsteele09/go-bookstore-client/editor"
	"github.com/jrsteele09/go-bookstore-client/session"
)

const defaultTimeout = 10 * time.Second

// TokenSourceFunc adapts a function to oauth2.TokenSource.
type TokenSourceFunc func() (*oauth2.Token, error)

func (f TokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

// Client talks to the bookstore REST API. Public endpoints go out over the
// base HTTP client; authenticated endpoints go through an oauth2 transport
// that attaches the session's bearer token to every request.
type Client struct {
	baseURL    string
	public     *http.Client
	authorized *http.Client
	logger     zerolog.Logger
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the base HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.public = hc
	}
}

// WithTimeout sets the per-request timeout on both HTTP clients.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.public.Timeout = d
	}
}

// NewClient initializes a Client for the API at baseURL. Bearer tokens for
// authenticated endpoints are pulled from tokens on each request, so the
// client always sends whatever session is current.
func NewClient(baseURL string, tokens oauth2.TokenSource, logger zerolog.Logger, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewClient] token source is required")
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		public:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}

	for _, opt := range options {
		opt(client)
	}

	client.authorized = &http.Client{
		Timeout:   client.public.Timeout,
		Transport: &oauth2.Transport{Source: tokens, Base: client.public.Transport},
	}

	return client, nil
}

// ListBooks fetches the full public catalog.
func (c *Client) ListBooks(ctx context.Context) ([]catalog.Book, error) {
	var books []catalog.Book
	if err := c.do(ctx, c.public, http.MethodGet, RouteBooks, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// Login exchanges credentials for a session. A server-side rejection maps to
// ErrInvalidCredentials so callers can tell it apart from a connectivity
// failure, which surfaces as ErrUnreachable.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	var resp loginResponse
	err := c.do(ctx, c.public, http.MethodPost, RouteLogin, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			if apiErr.Message != "" {
				return session.Session{}, errors.Wrap(ErrInvalidCredentials, apiErr.Message)
			}
			return session.Session{}, ErrInvalidCredentials
		}
		return session.Session{}, err
	}

	return session.Session{
		Token: resp.Token,
		Role:  session.Role(resp.Role),
		Name:  resp.Name,
	}, nil
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a new account. The caller validates input client-side
// first; the server remains the final authority.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	return c.do(ctx, c.public, http.MethodPost, RouteSignup, signupRequest{Name: name, Email: email, Password: password}, nil)
}

// CreateBook stores a new book record. Admin only, enforced server-side.
func (c *Client) CreateBook(ctx context.Context, draft editor.Draft) (catalog.Book, error) {
	var book catalog.Book
	if err := c.do(ctx, c.authorized, http.MethodPost, RouteAdminBook, draft, &book); err != nil {
		return catalog.Book{}, err
	}
	return book, nil
}

// UpdateBook replaces the editable fields of an existing record.
func (c *Client) UpdateBook(ctx context.Context, id int64, draft editor.Draft) (catalog.Book, error) {
	var book catalog.Book
	path := fmt.Sprintf("%s/%d", RouteAdminBook, id)
	if err := c.do(ctx, c.authorized, http.MethodPut, path, draft, &book); err != nil {
		return catalog.Book{}, err
	}
	return book, nil
}

// DeleteBook removes a record.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, c.authorized, http.MethodDelete, fmt.Sprintf("%s/%d", RouteAdminBook, id), nil, nil)
}

// ListCart fetches the cart rows for the current session.
func (c *Client) ListCart(ctx context.Context) ([]cart.LineItem, error) {
	var items []cart.LineItem
	if err := c.do(ctx, c.authorized, http.MethodGet, RouteCart, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type cartItemRequest struct {
	BookID   int64 `json:"book_id,omitempty"`
	Quantity int   `json:"quantity"`
}

// AddCartItem creates (or server-side merges) a cart row.
func (c *Client) AddCartItem(ctx context.Context, bookID int64, quantity int) error {
	return c.do(ctx, c.authorized, http.MethodPost, RouteCart, cartItemRequest{BookID: bookID, Quantity: quantity}, nil)
}

// UpdateCartItem changes the quantity of an existing row.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	path := fmt.Sprintf("%s/%d", RouteCart, itemID)
	return c.do(ctx, c.authorized, http.MethodPut, path, cartItemRequest{Quantity: quantity}, nil)
}

// RemoveCartItem deletes a row.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, c.authorized, http.MethodDelete, fmt.Sprintf("%s/%d", RouteCart, itemID), nil, nil)
}

// do runs one request/response cycle. Transport-level failures (no response
// at all) wrap ErrUnreachable; server rejections come back as *APIError with
// the server's message when the body carried one. Request bodies and
// responses are JSON.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] json.Marshal")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] http.NewRequestWithContext")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Debug().Str("request_id", requestID).Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return errors.Wrapf(ErrUnreachable, "[Client.do] %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().Str("request_id", requestID).Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request complete")

	if resp.StatusCode >= http.StatusBadRequest {
		return c.rejection(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[Client.do] decode %s %s response", method, path)
	}
	return nil
}

// rejection turns a non-2xx response into an *APIError, keeping the
// server's own message when the body carries one.
func (c *Client) rejection(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
