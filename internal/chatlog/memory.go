package chatlog

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu         sync.Mutex
	historyCap int
	logs       map[int64][]Entry
}

// NewMemoryStore — хранилище в памяти процесса.
// historyCap — максимум записей на комнату, 0 = без лимита.
func NewMemoryStore(historyCap int) Store {
	return &memoryStore{
		historyCap: historyCap,
		logs:       make(map[int64][]Entry),
	}
}

func (s *memoryStore) Append(_ context.Context, roomID int64, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.logs[roomID], e)
	if s.historyCap > 0 && len(entries) > s.historyCap {
		entries = entries[len(entries)-s.historyCap:]
	}
	s.logs[roomID] = entries
	return nil
}

func (s *memoryStore) Get(_ context.Context, roomID int64) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.logs[roomID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *memoryStore) Rooms(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.logs))
	for id := range s.logs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
