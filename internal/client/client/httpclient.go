package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type errorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details"`
}

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client

	mu          sync.Mutex
	accessToken string
}

// NewHTTPClient returns a client for the server at serverURL, for example
// "http://127.0.0.1:3001".
func NewHTTPClient(serverURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", serverURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Signup(ctx context.Context, email string, password []byte, name string) (*User, error) {
	var resp sessionResponse
	req := signupRequest{Email: email, Password: string(password), Name: name}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, false, &resp); err != nil {
		return nil, err
	}
	c.setAccessToken(resp.AccessToken)
	return &resp.User, nil
}

func (c *HTTPClient) Signin(ctx context.Context, email string, password []byte) (*User, error) {
	var resp sessionResponse
	req := signinRequest{Email: email, Password: string(password)}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", req, false, &resp); err != nil {
		return nil, err
	}
	c.setAccessToken(resp.AccessToken)
	return &resp.User, nil
}

// Refresh exchanges the refresh cookie for a new access token.
func (c *HTTPClient) Refresh(ctx context.Context) error {
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, false, &resp); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.setAccessToken("")
		}
		return err
	}
	c.setAccessToken(resp.AccessToken)
	return nil
}

// Signout revokes the current refresh token and forgets the access token.
func (c *HTTPClient) Signout(ctx context.Context) error {
	defer c.setAccessToken("")
	return c.do(ctx, http.MethodPost, "/auth/signout", nil, false, nil)
}

func (c *HTTPClient) SignoutAll(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/signout/all", nil, true, nil); err != nil {
		return err
	}
	c.setAccessToken("")
	return nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/profile", nil, true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, false, nil)
}

func (c *HTTPClient) LoggedIn() bool {
	return c.getAccessToken() != ""
}

func (c *HTTPClient) getAccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *HTTPClient) setAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// do sends one request. Authenticated requests that come back 401 are
// retried once after refreshing the access token.
func (c *HTTPClient) do(ctx context.Context, method, path string, in any, authed bool, out any) error {
	err := c.send(ctx, method, path, in, authed, out)
	if !authed || !errors.Is(err, ErrUnauthorized) {
		return err
	}

	if rerr := c.Refresh(ctx); rerr != nil {
		return err
	}
	return c.send(ctx, method, path, in, authed, out)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, in any, authed bool, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := c.getAccessToken(); token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil {
		apiErr.Message = er.Error
		apiErr.Details = er.Details
	}
	return apiErr
}
