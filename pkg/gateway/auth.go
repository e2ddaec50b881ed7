package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"mentor/pkg/logx"
)

const loginPath = "/api/v1/auth/login"

// AuthClient wraps Client with bearer-token authentication. The token is
// obtained on construction by exchanging fixed credentials; if no token is
// held at call time the client re-authenticates once before the call.
// There is no refresh or expiry handling: a 401 surfaces as a plain
// TransportError.
type AuthClient struct {
	client      *Client
	username    string
	password    string
	authTimeout time.Duration

	mu    sync.Mutex
	token string

	logger *logx.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// NewAuthClient creates an authenticated gateway client and performs the
// initial login. A failed login is not fatal: the token stays empty and
// the next call re-authenticates.
func NewAuthClient(baseURL, username, password string, authTimeout time.Duration) *AuthClient {
	a := &AuthClient{
		client:      NewClient(baseURL),
		username:    username,
		password:    password,
		authTimeout: authTimeout,
		logger:      logx.NewLogger("gateway-auth"),
	}
	if err := a.authenticate(context.Background()); err != nil {
		a.logger.Warn("initial authentication failed: %v", err)
	}
	return a
}

// authenticate exchanges credentials for a bearer token.
func (a *AuthClient) authenticate(ctx context.Context) error {
	raw, _, err := a.client.Call(ctx, loginPath, loginRequest{
		Username: a.username,
		Password: a.password,
	}, a.authTimeout)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("login response missing access_token")
	}

	a.mu.Lock()
	a.token = resp.AccessToken
	a.mu.Unlock()

	a.logger.Info("authenticated with %s", a.client.BaseURL())
	return nil
}

// ensureToken re-authenticates when no token is held. The mutex makes the
// read-then-rewrite of the token explicit rather than a benign race;
// concurrent callers may still issue redundant logins, which is accepted.
func (a *AuthClient) ensureToken(ctx context.Context) string {
	a.mu.Lock()
	token := a.token
	a.mu.Unlock()

	if token != "" {
		return token
	}

	if err := a.authenticate(ctx); err != nil {
		a.logger.Warn("re-authentication failed: %v", err)
		return ""
	}

	a.mu.Lock()
	token = a.token
	a.mu.Unlock()
	return token
}

// Call POSTs payload with a bearer Authorization header attached.
func (a *AuthClient) Call(ctx context.Context, path string, payload any, timeout time.Duration) (json.RawMessage, int, error) {
	headers := map[string]string{}
	if token := a.ensureToken(ctx); token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return a.client.do(ctx, "POST", path, payload, timeout, headers)
}

// Get issues an authenticated GET.
func (a *AuthClient) Get(ctx context.Context, path string, timeout time.Duration) (json.RawMessage, int, error) {
	headers := map[string]string{}
	if token := a.ensureToken(ctx); token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return a.client.do(ctx, "GET", path, nil, timeout, headers)
}

// Authenticated reports whether a bearer token is currently held.
func (a *AuthClient) Authenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token != ""
}
