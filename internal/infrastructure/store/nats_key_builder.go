// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Common key prefixes
const (
	KeyPrefixSession    = "session"
	KeyPrefixAttendance = "attendance"
	KeyPrefixUser       = "user"
	KeyPrefixEvents     = "events"
)

// KeyBuilder provides utilities for building consistent NATS KV keys.
type KeyBuilder struct{}

// NewKeyBuilder creates a new key builder.
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{}
}

// EntityKey builds a key for an entity (e.g. "session/uid-123").
func (kb *KeyBuilder) EntityKey(entityType, uid string) string {
	return fmt.Sprintf("%s/%s", entityType, uid)
}

// CompoundKey builds a compound key from multiple parts.
func (kb *KeyBuilder) CompoundKey(parts ...string) string {
	return strings.Join(parts, "/")
}

// EncodeSegment makes an arbitrary string (e.g. an email address) safe for
// use as one segment of a KV key.
func (kb *KeyBuilder) EncodeSegment(segment string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(segment))
}

// DecodeSegment reverses EncodeSegment.
func (kb *KeyBuilder) DecodeSegment(encoded string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode key segment: %w", err)
	}
	return string(decoded), nil
}
