package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// ISInterface is a TTL-bounded store for in-flight interaction state, keyed
// by correlation id. Entries expire on their own; nothing here is durable.
type ISInterface[T any] interface {
	Set(correlationID string, value T, ttl time.Duration)
	Get(correlationID string) (T, bool)
	Delete(correlationID string)
}

type interactionStore[T any] struct {
	cache *cache.Cache
}

// NewInteractionStore creates a TTL interaction store. defaultTTL bounds how
// long an entry may wait for its follow-up event before being dropped.
func NewInteractionStore[T any](defaultTTL time.Duration) ISInterface[T] {
	return &interactionStore[T]{
		cache: cache.New(defaultTTL, defaultTTL),
	}
}

func (s *interactionStore[T]) Set(correlationID string, value T, ttl time.Duration) {
	s.cache.Set(correlationID, value, ttl)
}

func (s *interactionStore[T]) Get(correlationID string) (T, bool) {
	v, found := s.cache.Get(correlationID)
	if !found {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return typed, true
}

func (s *interactionStore[T]) Delete(correlationID string) {
	s.cache.Delete(correlationID)
}
