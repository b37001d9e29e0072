// Package redis implements ports.TranscriptStore on Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/selim/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultKey is the key the transcript is stored under.
const DefaultKey = "selim:transcript"

// Store implements ports.TranscriptStore using Redis.
// The whole transcript is one JSON value under a single key.
type Store struct {
	client *backend.Client
	key    string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of the stored transcript.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithKey sets the key the transcript is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		key:    DefaultKey,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Save persists the transcript to Redis.
func (s *Store) Save(ctx context.Context, t *domain.Transcript) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	// Use 0 for no expiration if ttl is not set.
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the transcript from Redis.
func (s *Store) Load(ctx context.Context) (*domain.Transcript, error) {
	val, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var t domain.Transcript
	if err := json.Unmarshal(val, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return &t, nil
}

// Delete removes the transcript.
func (s *Store) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
