package chart

import (
	"context"
	"time"
)

// Store memoizes computed charts keyed on the normalized request. Entries
// older than their TTL are reported absent; Save unconditionally replaces.
type Store interface {
	Lookup(ctx context.Context, key string) (Record, bool, error)
	Save(ctx context.Context, key string, rec Record, ttl time.Duration) error
}
