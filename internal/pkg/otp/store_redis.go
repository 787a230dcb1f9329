package otp

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript deletes the hash only when its code field matches.
var takeScript = redis.NewScript(`
local h = redis.call('HMGET', KEYS[1], 'id', 'code', 'issued_at')
if h[2] ~= ARGV[1] then
  return false
end
redis.call('DEL', KEYS[1])
return {h[1], h[3]}
`)

// RedisStore keeps each record in a hash at otp:{purpose}:{identity} and lets
// Redis expire it.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: "otp:"}
}

func (s *RedisStore) key(identity string, purpose Purpose) string {
	return s.prefix + string(purpose) + ":" + identity
}

func (s *RedisStore) Replace(ctx context.Context, rec Record, ttl time.Duration) error {
	key := s.key(rec.Identity, rec.Purpose)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"id", rec.ID,
			"code", rec.Code,
			"issued_at", strconv.FormatInt(rec.IssuedAt.UnixNano(), 10),
		)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Take(ctx context.Context, identity string, purpose Purpose, code string) (*Record, error) {
	vals, err := takeScript.Run(ctx, s.client, []string{s.key(identity, purpose)}, code).StringSlice()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	if len(vals) != 2 {
		return nil, ErrNoRecord
	}

	issuedAt, err := parseNanos(vals[1])
	if err != nil {
		return nil, err
	}

	return &Record{ID: vals[0], Identity: identity, Code: code, Purpose: purpose, IssuedAt: issuedAt}, nil
}

func (s *RedisStore) Lookup(ctx context.Context, identity string, purpose Purpose) (*Record, error) {
	vals, err := s.client.HGetAll(ctx, s.key(identity, purpose)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrNoRecord
	}

	issuedAt, err := parseNanos(vals["issued_at"])
	if err != nil {
		return nil, err
	}

	return &Record{
		ID:       vals["id"],
		Identity: identity,
		Code:     vals["code"],
		Purpose:  purpose,
		IssuedAt: issuedAt,
	}, nil
}

func parseNanos(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, n).UTC(), nil
}
