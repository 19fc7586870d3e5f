// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the parley chat API.
//
// Endpoints:
//   - POST /auth/signup   - create account, returns bearer token
//   - POST /auth/login    - verify credentials, returns bearer token
//   - POST /auth/logout   - stateless acknowledgement
//   - POST /chat          - completion over the upstream model
//   - POST /chats/save    - persist a conversation (auth required)
//   - GET  /chats/history - list the caller's saved chats
//   - GET  /chats/{id}    - fetch one saved chat (ownership enforced)
//   - GET  /              - health check
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/storage"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the HTTP server.
	DefaultPort = 8787

	// DefaultTemperature is used when a chat request omits temperature.
	DefaultTemperature = 0.7

	// DefaultMaxTokens is used when a chat request omits max_tokens.
	DefaultMaxTokens = 2000

	// MaxMessageCount is the maximum number of messages in a request.
	MaxMessageCount = 100

	// MaxRequestBodySize is the maximum request body size (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// Version is the server version.
	Version = "1.0.0"
)

// validRoles is the set of acceptable message roles.
var validRoles = map[string]bool{
	"user":      true,
	"assistant": true,
	"system":    true,
}

// ============================================================================
// WIRE TYPES
// ============================================================================

// SignupRequest is the /auth/signup body.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest is the /auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by both auth endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
}

// ChatRequest is the /chat body.
type ChatRequest struct {
	Messages    []storage.ChatMessage `json:"messages"`
	Temperature float64               `json:"temperature,omitempty"`
	MaxTokens   int                   `json:"max_tokens,omitempty"`
}

// ChatResponse carries the completed reply. Upstream failures are substituted
// into Response as an error string rather than surfaced as a transport error;
// the client renders whatever arrives.
type ChatResponse struct {
	Response string `json:"response"`
}

// SaveChatRequest is the /chats/save body.
type SaveChatRequest struct {
	Title    string                `json:"title"`
	Messages []storage.ChatMessage `json:"messages"`
}

// errorResponse mirrors the API's error envelope.
type errorResponse struct {
	Detail string `json:"detail"`
}

// ============================================================================
// COMPLETER
// ============================================================================

// Completer produces a complete reply for a conversation. The upstream
// OpenAI-compatible client implements it; tests substitute their own.
type Completer interface {
	Complete(ctx context.Context, messages []storage.ChatMessage, temperature float64, maxTokens int) (string, error)
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the parley API server.
type Server struct {
	store     *storage.Store
	signer    *auth.Signer
	completer Completer
	httpSrv   *http.Server
}

// New creates a server over its collaborators.
func New(store *storage.Store, signer *auth.Signer, completer Completer) *Server {
	return &Server{
		store:     store,
		signer:    signer,
		completer: completer,
	}
}

// Handler builds the routed handler with the full middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /chats/save", s.handleSaveChat)
	mux.HandleFunc("GET /chats/history", s.handleChatHistory)
	mux.HandleFunc("GET /chats/{id}", s.handleGetChat)
	mux.HandleFunc("GET /", s.handleHealth)

	return chain(mux,
		recoverMiddleware,
		loggingMiddleware,
		corsMiddleware,
		securityHeadersMiddleware,
		rateLimitMiddleware(newIPLimiter()),
		bodyLimitMiddleware(MaxRequestBodySize),
	)
}

// ListenAndServe starts the server on the given port and blocks until the
// context is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	log.Printf("SERVER: listening on :%d", port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ============================================================================
// AUTH HANDLERS
// ============================================================================

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	userID, err := s.store.CreateUser(r.Context(), req.Email, hash, req.Name)
	if errors.Is(err, storage.ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		log.Printf("SERVER: signup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	s.writeToken(w, req.Email, userID)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.store.UserByEmail(r.Context(), req.Email)
	if err != nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		// Same message for unknown email and bad password.
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.writeToken(w, user.Email, user.ID)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; the client discards its copy.
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) writeToken(w http.ResponseWriter, email string, userID int64) {
	token, err := s.signer.Sign(email, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not mint token")
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      userID,
	})
}

// ============================================================================
// CHAT HANDLERS
// ============================================================================

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	if len(req.Messages) > MaxMessageCount {
		writeError(w, http.StatusBadRequest, "too many messages")
		return
	}
	for i, msg := range req.Messages {
		if !validRoles[msg.Role] {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid role %q at message %d", msg.Role, i))
			return
		}
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	reply, err := s.completer.Complete(r.Context(), req.Messages, temperature, maxTokens)
	if err != nil {
		// Substitute the failure as a message the client renders as-is.
		log.Printf("SERVER: completion failed: %v", err)
		writeJSON(w, http.StatusOK, ChatResponse{Response: "Error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

func (s *Server) handleSaveChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.requireAuth(w, r, "Login required to save chats")
	if !ok {
		return
	}

	var req SaveChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chat, err := s.store.SaveChat(r.Context(), claims.UserID, req.Title, req.Messages)
	if err != nil {
		log.Printf("SERVER: save chat failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not save chat")
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	claims := s.optionalAuth(r)
	if claims == nil {
		// Guests get an empty list, not an error.
		writeJSON(w, http.StatusOK, []storage.Chat{})
		return
	}

	chats, err := s.store.ChatsByUser(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("SERVER: chat history failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not list chats")
		return
	}
	if chats == nil {
		chats = []storage.Chat{}
	}
	writeJSON(w, http.StatusOK, chats)
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.requireAuth(w, r, "Not authenticated")
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	chat, err := s.store.ChatByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load chat")
		return
	}
	if chat.UserID != claims.UserID {
		writeError(w, http.StatusForbidden, "Not authorized")
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "parley API is running",
		"version": Version,
	})
}

// ============================================================================
// AUTH HELPERS
// ============================================================================

// requireAuth verifies the bearer token or writes a 401 with the given detail.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request, detail string) (*auth.Claims, bool) {
	claims := s.optionalAuth(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, detail)
		return nil, false
	}
	return claims, true
}

// optionalAuth returns the verified claims, or nil for guests and bad tokens.
func (s *Server) optionalAuth(r *http.Request) *auth.Claims {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil
	}
	token := strings.TrimPrefix(header, "Bearer ")
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil
	}
	return claims
}

// ============================================================================
// JSON HELPERS
// ============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("SERVER: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
