// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements credential handling for the parley API.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// TokenTTL is how long an access token stays valid.
const TokenTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken is returned for malformed or tampered tokens.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenExpired is returned for well-formed tokens past their expiry.
	ErrTokenExpired = errors.New("auth: token expired")
)

// Claims are the fields carried inside an access token.
type Claims struct {
	Subject string `json:"sub"` // user email
	UserID  int64  `json:"user_id"`
	Expires int64  `json:"exp"` // unix seconds
}

// Signer mints and verifies HS256 bearer tokens (JWT wire format).
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner creates a signer over a shared secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// tokenHeader is the fixed JOSE header for HS256.
var tokenHeader = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

// Sign mints a token for the given user with the standard TTL.
func (s *Signer) Sign(email string, userID int64) (string, error) {
	claims := Claims{
		Subject: email,
		UserID:  userID,
		Expires: s.now().Add(TokenTTL).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signing := tokenHeader + "." + base64.RawURLEncoding.EncodeToString(payload)
	return signing + "." + s.signature(signing), nil
}

// Verify checks the token's signature and expiry and returns its claims.
func (s *Signer) Verify(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	signing := parts[0] + "." + parts[1]
	want := s.signature(signing)
	if !hmac.Equal([]byte(want), []byte(parts[2])) {
		return nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Expires != 0 && s.now().Unix() > claims.Expires {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}

// signature computes the base64url HMAC-SHA256 over the signing input.
func (s *Signer) signature(signing string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signing))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
