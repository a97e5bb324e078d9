package audit

import (
	"context"
	"fmt"
	"sync"

	"veristat/internal/sentinel"
)

// InMemoryStore is the process-local audit sink. Persistence is an external
// collaborator's concern; this store backs tests and single-node deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]Event)
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.SubjectID] = append(s.events[event.SubjectID], event)
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events, ok := s.events[subjectID]
	if !ok {
		return nil, fmt.Errorf("audit trail for subject %q: %w", subjectID, sentinel.ErrNotFound)
	}
	return append([]Event{}, events...), nil
}
