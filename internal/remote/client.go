// Package remote talks to the row store API over HTTP.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/pkg/httputil"
)

const apiPrefix = "/api/v1"

// TokenSource yields the bearer token for the current user.
type TokenSource interface {
	Token() string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client implements the row store contract on top of the API. The API
// scopes every request to the token owner, so userID arguments are only
// used to refuse calls made without a user.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SelectAll(ctx context.Context, table string, userID uuid.UUID, orderBy string) ([]schema.Row, error) {
	if userID == uuid.Nil {
		return nil, errorvalues.ErrNotAuthenticated
	}
	q := url.Values{}
	q.Set("order", orderBy)
	var rows []schema.Row
	err := c.do(ctx, http.MethodGet, rowsPath(table)+"?"+q.Encode(), nil, &rows, errorvalues.ErrRecordNotFound)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	if rows == nil {
		rows = []schema.Row{}
	}
	return rows, nil
}

func (c *Client) SelectOne(ctx context.Context, table string, userID uuid.UUID, filter schema.Row) (schema.Row, error) {
	if userID == uuid.Nil {
		return nil, errorvalues.ErrNotAuthenticated
	}
	q := url.Values{}
	for col, v := range filter {
		q.Set(col, fmt.Sprint(v))
	}
	var row schema.Row
	err := c.do(ctx, http.MethodGet, rowsPath(table)+"/one?"+q.Encode(), nil, &row, errorvalues.ErrRecordNotFound)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", table, err)
	}
	return row, nil
}

func (c *Client) Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error) {
	var stored schema.Row
	err := c.do(ctx, http.MethodPost, rowsPath(table), row, &stored, errorvalues.ErrUserNotFound)
	if err != nil {
		return nil, fmt.Errorf("inserting into %s: %w", table, err)
	}
	return stored, nil
}

func (c *Client) Update(ctx context.Context, table string, id string, userID uuid.UUID, changes schema.Row) error {
	if userID == uuid.Nil {
		return errorvalues.ErrNotAuthenticated
	}
	err := c.do(ctx, http.MethodPatch, rowsPath(table)+"/"+url.PathEscape(id), changes, nil, errorvalues.ErrRecordNotFound)
	if err != nil {
		return fmt.Errorf("updating %s: %w", table, err)
	}
	return nil
}

func rowsPath(table string) string {
	return "/rows/" + url.PathEscape(table)
}

// do sends body as JSON and decodes the answer into out. notFound is the
// sentinel a 404 maps to for this call.
func (c *Client) do(ctx context.Context, method, path string, body, out any, notFound error) error {
	var reader io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		if err != nil {
			return errors.New("encoding request error: " + err.Error())
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return errors.New("building request error: " + err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.New("request error: " + err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp, notFound)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.New("decoding response error: " + err.Error())
	}
	return nil
}

func statusError(resp *http.Response, notFound error) error {
	apiErr := &httputil.ErrorResponse{Code: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := sonic.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = errorvalues.ErrNotAuthenticated
	case http.StatusNotFound:
		sentinel = notFound
	case http.StatusConflict:
		sentinel = errorvalues.ErrRecordExists
	case http.StatusForbidden:
		sentinel = errorvalues.ErrWrongCredentials
	case http.StatusBadRequest:
		sentinel = errorvalues.ErrValidation
	}
	if sentinel == nil {
		return apiErr
	}
	return fmt.Errorf("%w: %w", sentinel, apiErr)
}
