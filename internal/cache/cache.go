// Package cache stores serialized prediction responses keyed by match context and model version.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yourusername/predictsports-engine/internal/models"
)

var (
	// ErrCacheMiss is returned when a key is absent or expired
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheFull is returned when the memory store is at capacity after purging expired items
	ErrCacheFull = errors.New("cache full")
)

// Backend names
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Store is a JSON value cache. Values are copied in and out, so cached
// entries can never be mutated by callers.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Backend() string
}

// Key builds the cache key for a match context under a model version.
// The digest covers every input field, including the extended context.
func Key(match models.MatchContext, modelVersion string) (string, error) {
	payload, err := json.Marshal(match)
	if err != nil {
		return "", fmt.Errorf("failed to encode match context: %w", err)
	}
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("prediction:%s:%s:%s", modelVersion, match.MatchID(), hex.EncodeToString(sum[:12])), nil
}
