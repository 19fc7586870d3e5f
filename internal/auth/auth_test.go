// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, VerifyPassword("s3cret!", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestPasswordTruncation(t *testing.T) {
	// bcrypt only sees 72 bytes; both paths truncate identically, so two
	// passwords sharing their first 72 bytes verify against the same hash.
	long := strings.Repeat("a", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(long, hash))
	assert.True(t, VerifyPassword(strings.Repeat("a", 72)+"different-tail", hash))
	assert.False(t, VerifyPassword(strings.Repeat("a", 71), hash))
}

func TestSignAndVerifyToken(t *testing.T) {
	s := NewSigner("test-secret")

	token, err := s.Sign("ada@example.com", 7)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.EqualValues(t, 7, claims.UserID)
}

func TestVerify_RejectsTampering(t *testing.T) {
	s := NewSigner("test-secret")
	token, err := s.Sign("ada@example.com", 7)
	require.NoError(t, err)

	// Flip a payload byte.
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1][:len(parts[1])-2] + "xx." + parts[2]
	_, err = s.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Different secret.
	other := NewSigner("other-secret")
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	s := NewSigner("test-secret")
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.???.###"} {
		_, err := s.Verify(tok)
		assert.Error(t, err, "token %q", tok)
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	s := NewSigner("test-secret")
	s.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	token, err := s.Sign("old@example.com", 1)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
