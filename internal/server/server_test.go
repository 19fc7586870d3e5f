// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/storage"
)

// fakeCompleter returns a canned reply or error.
type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, _ []storage.ChatMessage, _ float64, _ int) (string, error) {
	return f.reply, f.err
}

func newTestServer(t *testing.T, completer Completer) *httptest.Server {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "parley.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	if completer == nil {
		completer = &fakeCompleter{reply: "Hello! How can I help?"}
	}

	srv := New(store, auth.NewSigner("test-secret"), completer)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func signup(t *testing.T, ts *httptest.Server, email string) TokenResponse {
	t.Helper()

	resp := postJSON(t, ts.URL+"/auth/signup", "", SignupRequest{
		Email:    email,
		Password: "hunter22",
		Name:     "Test User",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[TokenResponse](t, resp)
}

// === Auth ===

func TestSignupAndLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	tok := signup(t, ts, "alice@example.com")
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)
	assert.NotZero(t, tok.UserID)

	resp := postJSON(t, ts.URL+"/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loginTok := decodeBody[TokenResponse](t, resp)
	assert.Equal(t, tok.UserID, loginTok.UserID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	ts := newTestServer(t, nil)
	signup(t, ts, "bob@example.com")

	resp := postJSON(t, ts.URL+"/auth/signup", "", SignupRequest{
		Email:    "bob@example.com",
		Password: "another",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "Email already registered", body["detail"])
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t, nil)
	signup(t, ts, "carol@example.com")

	for _, attempt := range []LoginRequest{
		{Email: "carol@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "hunter22"},
	} {
		resp := postJSON(t, ts.URL+"/auth/login", "", attempt)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody[map[string]string](t, resp)
		// Same message for both failure modes.
		assert.Equal(t, "Invalid email or password", body["detail"])
	}
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/auth/logout", "", struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "Logged out successfully", body["message"])
}

// === Chat ===

func TestChatCompletion(t *testing.T) {
	ts := newTestServer(t, &fakeCompleter{reply: "# Answer\n\nHere is **bold** text."})

	resp := postJSON(t, ts.URL+"/chat", "", ChatRequest{
		Messages: []storage.ChatMessage{{Role: "user", Content: "hello"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[ChatResponse](t, resp)
	assert.Equal(t, "# Answer\n\nHere is **bold** text.", body.Response)
}

func TestChatUpstreamErrorSubstituted(t *testing.T) {
	ts := newTestServer(t, &fakeCompleter{err: errors.New("model unavailable")})

	resp := postJSON(t, ts.URL+"/chat", "", ChatRequest{
		Messages: []storage.ChatMessage{{Role: "user", Content: "hello"}},
	})
	// Failures arrive as a renderable message, not a transport error.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[ChatResponse](t, resp)
	assert.Equal(t, "Error: model unavailable", body.Response)
}

func TestChatRejectsEmptyAndInvalid(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/chat", "", ChatRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/chat", "", ChatRequest{
		Messages: []storage.ChatMessage{{Role: "robot", Content: "hi"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// === Saved chats ===

func TestSaveChatRequiresAuth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/chats/save", "", SaveChatRequest{Title: "untitled"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "Login required to save chats", body["detail"])
}

func TestSaveAndFetchChat(t *testing.T) {
	ts := newTestServer(t, nil)
	tok := signup(t, ts, "dora@example.com")

	messages := []storage.ChatMessage{
		{Role: "user", Content: "explain goroutines"},
		{Role: "assistant", Content: "## Goroutines\n\nLightweight threads."},
	}
	resp := postJSON(t, ts.URL+"/chats/save", tok.AccessToken, SaveChatRequest{
		Title:    "goroutines",
		Messages: messages,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	saved := decodeBody[storage.Chat](t, resp)
	assert.Equal(t, "goroutines", saved.Title)

	resp = getJSON(t, ts.URL+"/chats/"+strconv.FormatInt(saved.ID, 10), tok.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeBody[storage.Chat](t, resp)
	assert.Equal(t, messages, fetched.Messages)
}

func TestChatHistoryGuestEmpty(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := getJSON(t, ts.URL+"/chats/history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	chats := decodeBody[[]storage.Chat](t, resp)
	assert.Empty(t, chats)
}

func TestChatHistoryListsOwnChats(t *testing.T) {
	ts := newTestServer(t, nil)
	tok := signup(t, ts, "erin@example.com")

	resp := postJSON(t, ts.URL+"/chats/save", tok.AccessToken, SaveChatRequest{
		Title:    "first chat",
		Messages: []storage.ChatMessage{{Role: "user", Content: "hi"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = getJSON(t, ts.URL+"/chats/history", tok.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	chats := decodeBody[[]storage.Chat](t, resp)
	require.Len(t, chats, 1)
	assert.Equal(t, "first chat", chats[0].Title)
}

func TestGetChatOwnership(t *testing.T) {
	ts := newTestServer(t, nil)
	owner := signup(t, ts, "frank@example.com")
	other := signup(t, ts, "grace@example.com")

	resp := postJSON(t, ts.URL+"/chats/save", owner.AccessToken, SaveChatRequest{
		Title:    "private",
		Messages: []storage.ChatMessage{{Role: "user", Content: "secret"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	saved := decodeBody[storage.Chat](t, resp)

	resp = getJSON(t, ts.URL+"/chats/"+strconv.FormatInt(saved.ID, 10), other.AccessToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = getJSON(t, ts.URL+"/chats/999999", owner.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// === Health ===

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := getJSON(t, ts.URL+"/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	body := decodeBody[map[string]string](t, resp)
	assert.Contains(t, body["message"], "running")
}
