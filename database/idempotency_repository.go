package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingMarker = "pending"

// ErrInProgress is returned by Get while the first request with a key is
// still being handled.
var ErrInProgress = errors.New("request with this idempotency key is in progress")

// StoredResponse is the response replayed for a repeated idempotency key.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// IdempotencyRepository keeps print outcomes in Redis keyed by the client's
// Idempotency-Key header.
type IdempotencyRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyRepository(client *redis.Client, ttl time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{client: client, ttl: ttl}
}

func (r *IdempotencyRepository) getIdemKey(key string) string {
	return "idem:print:" + key
}

// Reserve marks key as in progress. It reports false when the key is
// already reserved or completed.
func (r *IdempotencyRepository) Reserve(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, r.getIdemKey(key), pendingMarker, r.ttl).Result()
}

// Get returns the stored response for key, or nil when there is none.
func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*StoredResponse, error) {
	val, err := r.client.Get(ctx, r.getIdemKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if val == pendingMarker {
		return nil, ErrInProgress
	}

	var resp StoredResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *IdempotencyRepository) Save(ctx context.Context, key string, resp StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.getIdemKey(key), data, r.ttl).Err()
}

// Release forgets key so the request can be retried.
func (r *IdempotencyRepository) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.getIdemKey(key)).Err()
}
