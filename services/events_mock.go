package services

import (
	"context"
	"sync"
)

// MockEventPublisher records published events for testing
type MockEventPublisher struct {
	events []Event
	err    error
	mu     sync.RWMutex
}

// NewMockEventPublisher creates a new recording publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// FailWith makes every subsequent Publish return err
func (m *MockEventPublisher) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *MockEventPublisher) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// Events returns a copy of everything published so far
func (m *MockEventPublisher) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// EventsOfType returns the published events with the given type
func (m *MockEventPublisher) EventsOfType(eventType string) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
