// Package draft persists the per-section field values the user previously
// entered through the companion control surface. The whole record lives under
// a single Redis key as JSON; absence of the key means an empty record.
package draft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Record maps section name to field-key/value pairs. An absent key means "do
// not touch this field"; handlers never write blanks over live values.
type Record map[string]map[string]string

// Get returns the value for a field inside a section, "" when absent.
func (r Record) Get(section, field string) string {
	if r == nil {
		return ""
	}
	return r[section][field]
}

// Has reports whether the field carries a non-empty value.
func (r Record) Has(section, field string) bool {
	return r.Get(section, field) != ""
}

// Set places a value, allocating the section map when needed.
func (r Record) Set(section, field, value string) {
	if r[section] == nil {
		r[section] = make(map[string]string)
	}
	r[section][field] = value
}

type capture struct {
	section string
	field   string
	value   string
	done    chan error
}

// Store is the Redis-backed draft store. Capture-backs from the live form are
// read-modify-write merges; they are serialized through a single writer
// goroutine so two captures landing in the same instant cannot overwrite each
// other's merge.
type Store struct {
	client   *redis.Client
	key      string
	captures chan capture
	stop     chan struct{}
}

// NewStore connects to Redis and starts the capture writer.
func NewStore(redisAddr, key string) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return newStoreWithClient(rdb, key)
}

func newStoreWithClient(client *redis.Client, key string) *Store {
	s := &Store{
		client:   client,
		key:      key,
		captures: make(chan capture, 16),
		stop:     make(chan struct{}),
	}
	go s.writer()
	return s
}

// Load reads the full draft record. A missing key yields an empty record.
func (s *Store) Load(ctx context.Context) (Record, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lectura del borrador: %w", err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("borrador corrupto: %w", err)
	}
	return rec, nil
}

// Save replaces the full record.
func (s *Store) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

// Clear removes the record. Only ever called on explicit user action.
func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Capture merges one field value back into the stored record, for values the
// form derived during a run (resolved street labels, assembled boundary
// text). Blocks until the merge landed.
func (s *Store) Capture(ctx context.Context, section, field, value string) error {
	c := capture{section: section, field: field, value: value, done: make(chan error, 1)}
	select {
	case s.captures <- c:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-c.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the capture writer.
func (s *Store) Close() error {
	close(s.stop)
	return s.client.Close()
}

func (s *Store) writer() {
	ctx := context.Background()
	for {
		select {
		case c := <-s.captures:
			c.done <- s.merge(ctx, c)
		case <-s.stop:
			return
		}
	}
}

func (s *Store) merge(ctx context.Context, c capture) error {
	rec, err := s.Load(ctx)
	if err != nil {
		return err
	}
	rec.Set(c.section, c.field, c.value)
	return s.Save(ctx, rec)
}
