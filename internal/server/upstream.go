// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server upstream: OpenAI-compatible chat completion client.
//
// The server proxies chat requests to any OpenAI-compatible endpoint
// (OpenRouter, OpenAI, a local llama.cpp server). Responses are collected
// whole; word-by-word reveal happens in the terminal client.
package server

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/jeranaias/parley-tui/internal/storage"
)

const (
	// upstreamTimeout bounds one completion round trip.
	upstreamTimeout = 120 * time.Second

	// upstreamMaxRetries is the number of retry attempts for transient errors.
	upstreamMaxRetries = 3

	// upstreamRetryBase is the base delay for exponential backoff.
	upstreamRetryBase = 500 * time.Millisecond

	// upstreamMaxResponse caps the response body read (10MB).
	upstreamMaxResponse = 10 * 1024 * 1024
)

// Error variables for common upstream failures.
var (
	// ErrUpstreamNotConfigured indicates the API key is not set.
	ErrUpstreamNotConfigured = errors.New("upstream API key not configured")

	// ErrUpstreamAuth indicates the upstream rejected the API key.
	ErrUpstreamAuth = errors.New("upstream authentication failed")

	// ErrUpstreamRateLimited indicates the upstream rate limit was hit.
	ErrUpstreamRateLimited = errors.New("upstream rate limit exceeded")
)

// Shared HTTP client with connection pooling for all upstream requests.
var upstreamHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: upstreamTimeout,
}

// ============================================================================
// CLIENT
// ============================================================================

// UpstreamClient talks to an OpenAI-compatible /chat/completions endpoint.
type UpstreamClient struct {
	baseURL string
	apiKey  string
	model   string
}

// NewUpstreamClient creates a client for the given endpoint and model.
// baseURL should include the API version prefix, e.g.
// "https://openrouter.ai/api/v1".
func NewUpstreamClient(baseURL, apiKey, model string) *UpstreamClient {
	return &UpstreamClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

// completionRequest is the OpenAI-compatible request body.
type completionRequest struct {
	Model       string                `json:"model"`
	Messages    []storage.ChatMessage `json:"messages"`
	Temperature float64               `json:"temperature"`
	MaxTokens   int                   `json:"max_tokens"`
	Stream      bool                  `json:"stream"`
}

// completionResponse is the subset of the response body we read.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation upstream and returns the reply text.
// Transient failures (5xx, network errors) are retried with exponential
// backoff; auth and client errors fail immediately.
func (c *UpstreamClient) Complete(ctx context.Context, messages []storage.ChatMessage, temperature float64, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", ErrUpstreamNotConfigured
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= upstreamMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * upstreamRetryBase
			log.Printf("UPSTREAM: retry %d/%d after %v: %v", attempt, upstreamMaxRetries, delay, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		reply, retryable, err := c.once(ctx, body)
		if err == nil {
			return reply, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("upstream request failed after %d retries: %w", upstreamMaxRetries, lastErr)
}

// once performs a single completion attempt. The second return value reports
// whether the failure is worth retrying.
func (c *UpstreamClient) once(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := upstreamHTTPClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, upstreamMaxResponse))
	if err != nil {
		return "", true, fmt.Errorf("read upstream response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", false, ErrUpstreamAuth
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, ErrUpstreamRateLimited
	case resp.StatusCode >= 500:
		return "", true, fmt.Errorf("upstream returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", false, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, truncateBody(data))
	}

	var parsed completionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, fmt.Errorf("decode upstream response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("upstream error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, errors.New("upstream returned no choices")
	}
	return parsed.Choices[0].Message.Content, false, nil
}

// truncateBody shortens a response body for error messages.
func truncateBody(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
