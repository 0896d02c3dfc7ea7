package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-pdf/internal/types"
)

// DefaultRedisPrefix namespaces every key the redis store writes.
const DefaultRedisPrefix = "resume-pdf:"

const (
	fieldJSON     = "json"
	fieldToken    = "token"
	fieldTemplate = "template"
	fieldCreated  = "created"
)

// Redis stores each submission as a hash, allocates ids with INCR and keeps a
// sorted set of ids scored by creation time for sweeping. Every hash also gets
// a TTL of the retention window so that records disappear even if no sweep
// runs.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

var _ Store = (*Redis)(nil)

// NewRedis creates a store on top of client. ttl is the key expiry backstop;
// zero disables it.
func NewRedis(client redis.UniversalClient, ttl time.Duration, opts ...Option) *Redis {
	o := applyOptions(opts)
	return &Redis{
		client: client,
		prefix: DefaultRedisPrefix,
		ttl:    ttl,
		now:    o.now,
	}
}

func (r *Redis) seqKey() string {
	return r.prefix + "seq"
}

func (r *Redis) indexKey() string {
	return r.prefix + "created"
}

func (r *Redis) key(id int64) string {
	return r.prefix + "sub:" + strconv.FormatInt(id, 10)
}

func (r *Redis) Insert(ctx context.Context, raw []byte, token, templateID string) (int64, error) {
	id, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return 0, unavailable("insert", err)
	}

	created := r.now().UTC()
	key := r.key(id)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldJSON, string(raw),
			fieldToken, token,
			fieldTemplate, templateID,
			fieldCreated, created.UnixNano(),
		)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{
			Score:  float64(created.UnixMilli()),
			Member: strconv.FormatInt(id, 10),
		})
		return nil
	})
	if err != nil {
		return 0, unavailable("insert", err)
	}
	return id, nil
}

func (r *Redis) Lookup(ctx context.Context, id int64) (*types.Submission, error) {
	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, unavailable("lookup", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	nanos, err := strconv.ParseInt(fields[fieldCreated], 10, 64)
	if err != nil {
		return nil, unavailable("lookup", errors.New("corrupt created field"))
	}
	return &types.Submission{
		ID:         id,
		RawJSON:    []byte(fields[fieldJSON]),
		Token:      fields[fieldToken],
		TemplateID: fields[fieldTemplate],
		CreatedAt:  time.Unix(0, nanos).UTC(),
	}, nil
}

func (r *Redis) Sweep(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := r.now().UTC().Add(-maxAge).UnixMilli()
	members, err := r.client.ZRangeByScore(ctx, r.indexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff, 10),
	}).Result()
	if err != nil {
		return 0, unavailable("sweep", err)
	}
	if len(members) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(members))
	ids := make([]interface{}, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		keys = append(keys, r.key(id))
		ids = append(ids, m)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	var del *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, r.indexKey(), ids...)
		return nil
	})
	if err != nil {
		return 0, unavailable("sweep", err)
	}
	// Keys already expired by TTL are not counted.
	return del.Val(), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
