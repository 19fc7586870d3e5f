// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the typed HTTP client for the parley API server.
//
// Every method maps to one endpoint. API-level failures are surfaced as
// *APIError carrying the server's detail string, so the UI can show exactly
// what the server said.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jeranaias/parley-tui/internal/storage"
)

const (
	// DefaultBaseURL points at a locally running parley server.
	DefaultBaseURL = "http://localhost:8787"

	// requestTimeout bounds one API round trip. Chat completions can take a
	// while on slow upstreams.
	requestTimeout = 150 * time.Second

	// maxResponseSize caps the response body read (10MB).
	maxResponseSize = 10 * 1024 * 1024
)

// Shared HTTP client with connection pooling for all API requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: requestTimeout,
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// ============================================================================
// CLIENT
// ============================================================================

// Client talks to one parley API server. Token is set after login/signup and
// cleared on logout; methods that allow guests simply omit it when empty.
type Client struct {
	baseURL string
	token   string
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token, empty for guests.
func (c *Client) Token() string { return c.token }

// Authenticated reports whether a bearer token is installed.
func (c *Client) Authenticated() bool { return c.token != "" }

// ============================================================================
// WIRE TYPES
// ============================================================================

// Credentials is the signup/login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Session is the token response from signup and login.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
}

type chatRequest struct {
	Messages    []storage.ChatMessage `json:"messages"`
	Temperature float64               `json:"temperature"`
	MaxTokens   int                   `json:"max_tokens"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type saveChatRequest struct {
	Title    string                `json:"title"`
	Messages []storage.ChatMessage `json:"messages"`
}

// ============================================================================
// AUTH
// ============================================================================

// Signup creates an account and installs the returned token.
func (c *Client) Signup(ctx context.Context, creds Credentials) (*Session, error) {
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/auth/signup", creds, &sess); err != nil {
		return nil, err
	}
	c.token = sess.AccessToken
	return &sess, nil
}

// Login verifies credentials and installs the returned token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Session, error) {
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &sess); err != nil {
		return nil, err
	}
	c.token = sess.AccessToken
	return &sess, nil
}

// Logout notifies the server and clears the local token. The token is
// cleared even if the request fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil)
	c.token = ""
	return err
}

// ============================================================================
// CHAT
// ============================================================================

// Chat sends the conversation and returns the assistant's complete reply.
// Upstream failures arrive as ordinary text beginning "Error: "; the caller
// renders them like any other reply.
func (c *Client) Chat(ctx context.Context, messages []storage.ChatMessage, temperature float64, maxTokens int) (string, error) {
	var resp chatResponse
	err := c.do(ctx, http.MethodPost, "/chat", chatRequest{
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

// ============================================================================
// SAVED CHATS
// ============================================================================

// SaveChat persists a conversation under the signed-in account.
func (c *Client) SaveChat(ctx context.Context, title string, messages []storage.ChatMessage) (*storage.Chat, error) {
	var chat storage.Chat
	err := c.do(ctx, http.MethodPost, "/chats/save", saveChatRequest{
		Title:    title,
		Messages: messages,
	}, &chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// History lists the caller's saved chats, newest first. Guests get an empty
// list.
func (c *Client) History(ctx context.Context) ([]storage.Chat, error) {
	var chats []storage.Chat
	if err := c.do(ctx, http.MethodGet, "/chats/history", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetChat fetches one saved chat by id.
func (c *Client) GetChat(ctx context.Context, id int64) (*storage.Chat, error) {
	var chat storage.Chat
	if err := c.do(ctx, http.MethodGet, "/chats/"+strconv.FormatInt(id, 10), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// ============================================================================
// TRANSPORT
// ============================================================================

// do performs one request and decodes the response into out (when non-nil).
// Non-2xx responses become *APIError with the server's detail string.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return &APIError{StatusCode: resp.StatusCode, Detail: apiErr.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
