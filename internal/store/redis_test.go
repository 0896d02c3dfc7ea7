package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableRedis(t *testing.T) *Redis {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewRedis(client, time.Minute)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMiniRedis(t *testing.T, clock *fakeClock, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl, WithClock(clock.Now))
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedis_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T, clock *fakeClock) Store {
		s, _ := newMiniRedis(t, clock, time.Hour)
		return s
	})
}

func TestRedis_SweepBoundary(t *testing.T) {
	clock := newFakeClock()
	s, mr := newMiniRedis(t, clock, time.Hour)
	ctx := context.Background()

	id, err := s.Insert(ctx, []byte(`{}`), "tok", "material-blue")
	require.NoError(t, err)
	clock.Advance(10 * time.Minute)

	removed, err := s.Sweep(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, removed, "record exactly at the retention age is kept")
	assert.True(t, mr.Exists(s.key(id)))

	clock.Advance(time.Millisecond)
	removed, err = s.Sweep(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.False(t, mr.Exists(s.key(id)))
}

func TestRedis_SweepClearsIndex(t *testing.T) {
	clock := newFakeClock()
	s, mr := newMiniRedis(t, clock, time.Hour)
	ctx := context.Background()

	for range 3 {
		_, err := s.Insert(ctx, []byte(`{}`), "tok", "material-blue")
		require.NoError(t, err)
	}
	members, err := mr.ZMembers(s.indexKey())
	require.NoError(t, err)
	assert.Len(t, members, 3)

	clock.Advance(time.Hour)
	removed, err := s.Sweep(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	assert.False(t, mr.Exists(s.indexKey()), "index is empty after the sweep")
	for id := int64(1); id <= 3; id++ {
		assert.False(t, mr.Exists(s.key(id)), "record %d", id)
	}
}

func TestRedis_TTLBackstop(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		wantTTL time.Duration
	}{
		{"ttl set", 10 * time.Minute, 10 * time.Minute},
		{"ttl disabled", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mr := newMiniRedis(t, newFakeClock(), tt.ttl)
			ctx := context.Background()

			id, err := s.Insert(ctx, []byte(`{}`), "tok", "material-blue")
			require.NoError(t, err)
			assert.Equal(t, tt.wantTTL, mr.TTL(s.key(id)))
		})
	}
}

func TestRedis_ExpiredRecordIsNotFound(t *testing.T) {
	clock := newFakeClock()
	s, mr := newMiniRedis(t, clock, 10*time.Minute)
	ctx := context.Background()

	id, err := s.Insert(ctx, []byte(`{}`), "tok", "material-blue")
	require.NoError(t, err)

	mr.FastForward(11 * time.Minute)
	_, err = s.Lookup(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	// The index entry outlives the hash until the next sweep.
	clock.Advance(11 * time.Minute)
	removed, err := s.Sweep(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, removed, "keys already expired are not counted")
	assert.False(t, mr.Exists(s.indexKey()))
}

func TestRedis_CorruptRecord(t *testing.T) {
	s, mr := newMiniRedis(t, newFakeClock(), time.Hour)
	mr.HSet(s.key(7), fieldJSON, `{}`, fieldCreated, "yesterday")

	_, err := s.Lookup(context.Background(), 7)
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "lookup", ue.Op)
}

func TestRedis_Keys(t *testing.T) {
	s := NewRedis(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), time.Minute)
	defer s.Close()

	assert.Equal(t, "resume-pdf:seq", s.seqKey())
	assert.Equal(t, "resume-pdf:created", s.indexKey())
	assert.Equal(t, "resume-pdf:sub:15", s.key(15))
}

func TestRedis_UnreachableIsUnavailable(t *testing.T) {
	s := unreachableRedis(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, []byte(`{}`), "tok", "material-blue")
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "insert", ue.Op)

	_, err = s.Lookup(ctx, 1)
	require.ErrorAs(t, err, &ue)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = s.Sweep(ctx, time.Minute)
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "sweep", ue.Op)
}
