package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T, clock *fakeClock) Store {
		return NewMemory(WithClock(clock.Now))
	})
}

func TestMemory_LookupReturnsCopy(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	raw := []byte(`{"lang":"en"}`)
	id, err := s.Insert(ctx, raw, "tok", "material-blue")
	require.NoError(t, err)
	raw[0] = 'x'

	sub, err := s.Lookup(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, `{"lang":"en"}`, string(sub.RawJSON))

	sub.RawJSON[0] = 'y'
	again, err := s.Lookup(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), again.RawJSON[0])
}

func TestMemory_SweepBoundary(t *testing.T) {
	clock := newFakeClock()
	s := NewMemory(WithClock(clock.Now))
	ctx := context.Background()

	_, err := s.Insert(ctx, []byte(`{}`), "tok", "material-blue")
	require.NoError(t, err)
	clock.Advance(10 * time.Minute)

	removed, err := s.Sweep(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, removed, "record exactly at the retention age is kept")
	assert.Equal(t, 1, s.Len())

	clock.Advance(time.Second)
	removed, err = s.Sweep(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Zero(t, s.Len())
}

func TestMemory_CanceledContext(t *testing.T) {
	s := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Insert(ctx, []byte(`{}`), "tok", "material-blue")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Len())

	_, err = s.Lookup(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemory_SpreadsAcrossShards(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	for range memoryShards * 2 {
		_, err := s.Insert(ctx, []byte(`{}`), "tok", "material-blue")
		require.NoError(t, err)
	}

	for i := range s.shards {
		assert.Len(t, s.shards[i].records, 2, "shard %d", i)
	}
}
