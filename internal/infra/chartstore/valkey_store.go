package chartstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ziwei-api/internal/domain/chart"
)

// ValkeyStore shares the chart cache across replicas using a Valkey-compatible
// database. TTL enforcement is delegated to the server-side key expiry.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "chart"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Lookup implements chart.Store.
func (s *ValkeyStore) Lookup(ctx context.Context, key string) (chart.Record, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return chart.Record{}, false, nil
		}
		return chart.Record{}, false, err
	}
	var rec chart.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return chart.Record{}, false, err
	}
	return rec, true, nil
}

// Save implements chart.Store.
func (s *ValkeyStore) Save(ctx context.Context, key string, rec chart.Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return s.prefix + ":" + key
}

var _ chart.Store = (*ValkeyStore)(nil)
