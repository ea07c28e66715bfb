package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/util"
)

// MemoryStore is an in-memory StreamStore. Records are cloned on the way
// in and out, so callers can never mutate stored state except through
// Put/Update. The mutex only guards concurrent access across different
// streams; per-stream serialization is the runtime's contract.
type MemoryStore struct {
	mu      sync.Mutex
	streams map[util.Address]*types.Stream
}

var _ StreamStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		streams: make(map[util.Address]*types.Stream),
	}
}

// Put implements StreamStore.
func (m *MemoryStore) Put(_ context.Context, stream *types.Stream) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.streams[stream.ID]; ok {
		return errors.Wrapf(types.ErrorStreamExists, "stream %s", stream.ID)
	}
	m.streams[stream.ID] = stream.Clone()
	return nil
}

// Update implements StreamStore.
func (m *MemoryStore) Update(_ context.Context, stream *types.Stream) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.streams[stream.ID]; !ok {
		return errors.Wrapf(types.ErrorStreamNotFound, "stream %s", stream.ID)
	}
	m.streams[stream.ID] = stream.Clone()
	return nil
}

// Get implements StreamStore.
func (m *MemoryStore) Get(_ context.Context, id util.Address) (*types.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stream, ok := m.streams[id]
	if !ok {
		return nil, errors.Wrapf(types.ErrorStreamNotFound, "stream %s", id)
	}
	return stream.Clone(), nil
}

// ListBySender implements StreamStore.
func (m *MemoryStore) ListBySender(_ context.Context, sender util.Address) ([]*types.Stream, error) {
	return m.list(func(s *types.Stream) bool { return s.Sender == sender }), nil
}

// ListByRecipient implements StreamStore.
func (m *MemoryStore) ListByRecipient(_ context.Context, recipient util.Address) ([]*types.Stream, error) {
	return m.list(func(s *types.Stream) bool { return s.Recipient == recipient }), nil
}

func (m *MemoryStore) list(match func(*types.Stream) bool) []*types.Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Stream
	for _, stream := range m.streams {
		if match(stream) {
			out = append(out, stream.Clone())
		}
	}
	return out
}
