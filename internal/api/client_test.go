// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeranaias/parley-tui/internal/storage"
)

func TestLoginInstallsToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(Session{
			AccessToken: "tok-123",
			TokenType:   "bearer",
			UserID:      7,
		})
	}))
	defer ts.Close()

	c := New(ts.URL)
	sess, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.UserID != 7 {
		t.Errorf("UserID = %d, want 7", sess.UserID)
	}
	if !c.Authenticated() || c.Token() != "tok-123" {
		t.Errorf("token not installed: %q", c.Token())
	}
}

func TestLoginErrorSurfacesDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid email or password"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "bad"})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Error() != "Invalid email or password" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestChatSendsTokenAndBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-abc" {
			t.Errorf("Authorization = %q", auth)
		}
		var req struct {
			Messages    []storage.ChatMessage `json:"messages"`
			Temperature float64               `json:"temperature"`
			MaxTokens   int                   `json:"max_tokens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hi" {
			t.Errorf("messages = %+v", req.Messages)
		}
		if req.Temperature != 0.7 || req.MaxTokens != 2000 {
			t.Errorf("temperature=%v maxTokens=%d", req.Temperature, req.MaxTokens)
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "hello there"})
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.SetToken("tok-abc")

	reply, err := c.Chat(context.Background(),
		[]storage.ChatMessage{{Role: "user", Content: "hi"}}, 0.7, 2000)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "hello there" {
		t.Errorf("reply = %q", reply)
	}
}

func TestLogoutClearsTokenEvenOnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "boom"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.SetToken("tok-xyz")

	if err := c.Logout(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if c.Authenticated() {
		t.Error("token should be cleared after logout")
	}
}

func TestHistoryGuest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("guest request should not carry a token")
		}
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	chats, err := New(ts.URL).History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(chats) != 0 {
		t.Errorf("chats = %+v, want empty", chats)
	}
}

func TestGetChatPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chats/42" {
			t.Errorf("path = %q, want /chats/42", r.URL.Path)
		}
		json.NewEncoder(w).Encode(storage.Chat{ID: 42, Title: "saved"})
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.SetToken("tok")
	chat, err := c.GetChat(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if chat.ID != 42 || chat.Title != "saved" {
		t.Errorf("chat = %+v", chat)
	}
}
