package store

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/resume-pdf/internal/types"
)

const memoryShards = 16

type shard struct {
	mu      sync.RWMutex
	records map[int64]types.Submission
}

// Memory is an in-process Store. Records are spread over shards by id so that
// concurrent inserts and lookups rarely contend on the same lock.
type Memory struct {
	shards [memoryShards]shard
	lastID atomic.Int64
	now    func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	o := applyOptions(opts)
	m := &Memory{now: o.now}
	for i := range m.shards {
		m.shards[i].records = make(map[int64]types.Submission)
	}
	return m
}

func (m *Memory) shardFor(id int64) *shard {
	return &m.shards[uint64(id)%memoryShards]
}

func (m *Memory) Insert(ctx context.Context, raw []byte, token, templateID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	id := m.lastID.Add(1)
	sub := types.Submission{
		ID:         id,
		RawJSON:    slices.Clone(raw),
		Token:      token,
		TemplateID: templateID,
		CreatedAt:  m.now(),
	}

	s := m.shardFor(id)
	s.mu.Lock()
	s.records[id] = sub
	s.mu.Unlock()
	return id, nil
}

func (m *Memory) Lookup(ctx context.Context, id int64) (*types.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := m.shardFor(id)
	s.mu.RLock()
	sub, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sub.RawJSON = slices.Clone(sub.RawJSON)
	return &sub, nil
}

func (m *Memory) Sweep(ctx context.Context, maxAge time.Duration) (int64, error) {
	now := m.now()
	var removed int64
	for i := range m.shards {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		s := &m.shards[i]
		s.mu.Lock()
		for id, sub := range s.records {
			if sub.Age(now) > maxAge {
				delete(s.records, id)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed, nil
}

// Len returns the number of stored submissions.
func (m *Memory) Len() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		n += len(s.records)
		s.mu.RUnlock()
	}
	return n
}

func (m *Memory) Close() error {
	return nil
}
