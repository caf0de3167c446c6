// Package api is an HTTP client for the ideapool API. It keeps the current
// session's token pair and refreshes the access token once when the server
// answers 401 on an authenticated call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/ideapool/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// LoggedIn reports whether the client holds a session.
func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshToken != ""
}

func (c *Client) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *Client) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = access, refresh
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	var pair tokenPair
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users", "", body, &pair); err != nil {
		return err
	}
	c.setTokens(pair.JWT, pair.RefreshToken)
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var pair tokenPair
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/access-tokens", "", body, &pair); err != nil {
		return err
	}
	c.setTokens(pair.JWT, pair.RefreshToken)
	return nil
}

// Logout revokes the refresh token on the server and forgets the session.
// The local session is dropped even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	access, refresh := c.tokens()
	if refresh == "" {
		return ErrNotLoggedIn
	}
	defer c.setTokens("", "")
	return c.do(ctx, http.MethodDelete, "/access-tokens", access, map[string]string{"refresh_token": refresh}, nil)
}

// Refresh exchanges the refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context) error {
	access, refresh := c.tokens()
	if refresh == "" {
		return ErrNotLoggedIn
	}
	var out struct {
		JWT string `json:"jwt"`
	}
	if err := c.do(ctx, http.MethodPost, "/access-tokens/refresh", access, map[string]string{"refresh_token": refresh}, &out); err != nil {
		return err
	}
	c.setTokens(out.JWT, refresh)
	return nil
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.authed(ctx, http.MethodGet, "/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListIdeas(ctx context.Context, page int) ([]Idea, error) {
	var list []Idea
	if err := c.authed(ctx, http.MethodGet, "/ideas?page="+strconv.Itoa(page), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateIdea(ctx context.Context, in IdeaInput) (*Idea, error) {
	var idea Idea
	if err := c.authed(ctx, http.MethodPost, "/ideas", in, &idea); err != nil {
		return nil, err
	}
	return &idea, nil
}

func (c *Client) UpdateIdea(ctx context.Context, id string, in IdeaInput) (*Idea, error) {
	var idea Idea
	if err := c.authed(ctx, http.MethodPut, "/ideas/"+url.PathEscape(id), in, &idea); err != nil {
		return nil, err
	}
	return &idea, nil
}

func (c *Client) DeleteIdea(ctx context.Context, id string) error {
	return c.authed(ctx, http.MethodDelete, "/ideas/"+url.PathEscape(id), nil, nil)
}

// authed performs a call with the access token, refreshing it once on 401.
func (c *Client) authed(ctx context.Context, method, path string, in, out any) error {
	access, _ := c.tokens()
	if access == "" {
		return ErrNotLoggedIn
	}

	err := c.do(ctx, method, path, access, in, out)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}

	if err := c.Refresh(ctx); err != nil {
		return err
	}
	access, _ = c.tokens()
	return c.do(ctx, method, path, access, in, out)
}

func (c *Client) do(ctx context.Context, method, path, access string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set(common.AccessTokenHeaderName, access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	e := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var b errorBody
	if err := json.NewDecoder(resp.Body).Decode(&b); err == nil {
		if b.Error != "" {
			e.Message = b.Error
		}
		e.Fields = b.Errors
	}
	return e
}
