// Package kv is the durable key/value layer the collection store persists to.
// Values are opaque strings; every backend treats a missing key as ("", false, nil).
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidKey is returned for empty keys or keys a backend cannot address
var ErrInvalidKey = errors.New("invalid storage key")

// Store is implemented by every backend
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CheckKey rejects keys that are empty or could escape a namespace
func CheckKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, "/\\\x00") || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}
