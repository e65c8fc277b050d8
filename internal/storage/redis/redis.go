// Package redis stores leads in Redis: one JSON value per link, keyed by the
// link's SHA-256, plus a sorted set ordering the keys by creation time.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/storage"
)

var _ storage.LeadStore = (*Store)(nil)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "leadburr:"

type Store struct {
	rdb    *goredis.Client
	prefix string
}

// NewFromURL parses a redis:// URL and returns a connected store.
func NewFromURL(ctx context.Context, url string) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	return New(ctx, goredis.NewClient(opts), DefaultPrefix)
}

// New wraps rdb, verifying the connection.
func New(ctx context.Context, rdb *goredis.Client, prefix string) (*Store, error) {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &Store{rdb: rdb, prefix: prefix}, nil
}

func (s *Store) key(link string) string {
	sum := sha256.Sum256([]byte(link))
	return s.prefix + "lead:" + hex.EncodeToString(sum[:])
}

func (s *Store) index() string { return s.prefix + "leads" }

func (s *Store) ExistsByLink(ctx context.Context, link string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key(link)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: exists: %w", err)
	}
	return n > 0, nil
}

func (s *Store) Create(ctx context.Context, rec *lead.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis: encode: %w", err)
	}

	key := s.key(rec.Link)
	ok, err := s.rdb.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis: create: %w", err)
	}
	if !ok {
		return storage.ErrDuplicate
	}

	z := goredis.Z{Score: float64(rec.CreatedAt.UnixMicro()), Member: key}
	if err := s.rdb.ZAdd(ctx, s.index(), z).Err(); err != nil {
		return fmt.Errorf("redis: index: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, filter storage.Filter) ([]*lead.Record, error) {
	keys, err := s.rdb.ZRevRange(ctx, s.index(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list: %w", err)
	}
	if len(keys) == 0 {
		return []*lead.Record{}, nil
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list: %w", err)
	}

	recs := make([]*lead.Record, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// index entry without a value
			continue
		}
		var r lead.Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("redis: decode: %w", err)
		}
		recs = append(recs, &r)
	}
	return filter.Apply(recs), nil
}

func (s *Store) Close() error {
	if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return fmt.Errorf("redis: close: %w", err)
	}
	return nil
}
