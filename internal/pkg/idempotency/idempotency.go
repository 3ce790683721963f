// internal/pkg/idempotency/idempotency.go
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/bagstore/internal/domain/apperr"
)

// Header carries the client-chosen key
const Header = "Idempotency-Key"

const maxKeyLength = 128

const (
	statePending = "pending"
	stateDone    = "done"
)

// ErrInProgress is returned when a request with the same key is still running
var ErrInProgress = &apperr.Error{Op: "idempotency.begin", Kind: apperr.ErrConflict, Message: "a request with this Idempotency-Key is already in progress"}

// Key returns the trimmed header value
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

// Response is a stored result replayed for repeated keys
type Response struct {
	State  string          `json:"state"`
	Status int             `json:"status,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// Store keeps request outcomes in Redis
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a store whose entries live for ttl
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Validate checks a client key
func Validate(key string) error {
	if len(key) > maxKeyLength {
		return apperr.New("idempotency.validate", apperr.ErrInvalidInput, "%s must be at most %d characters", Header, maxKeyLength)
	}
	return nil
}

func redisKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// Begin claims key within scope. When the key was already completed the
// stored response is returned and the caller must replay it instead of
// running the request again.
func (s *Store) Begin(ctx context.Context, scope, key string) (*Response, error) {
	pending, err := json.Marshal(Response{State: statePending})
	if err != nil {
		return nil, err
	}

	claimed, err := s.client.SetNX(ctx, redisKey(scope, key), pending, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if claimed {
		return nil, nil
	}

	data, err := s.client.Get(ctx, redisKey(scope, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired or aborted between SETNX and GET.
		return s.Begin(ctx, scope, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var stored Response
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode idempotency record: %w", err)
	}
	if stored.State != stateDone {
		return nil, ErrInProgress
	}
	return &stored, nil
}

// Complete stores the response for later replays
func (s *Store) Complete(ctx context.Context, scope, key string, status int, body []byte) error {
	data, err := json.Marshal(Response{State: stateDone, Status: status, Body: body})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(scope, key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotent response: %w", err)
	}
	return nil
}

// Abort releases the key so the client can retry, used when the request
// failed in a way that should not be replayed.
func (s *Store) Abort(ctx context.Context, scope, key string) error {
	return s.client.Del(ctx, redisKey(scope, key)).Err()
}
