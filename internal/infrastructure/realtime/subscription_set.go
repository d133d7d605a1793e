package realtime

import (
	"context"
	"sync"
)

// SubscriptionSet is an owned collection of subscription cancel handles
// released together, so a view's subscriptions cannot leak one by one.
type SubscriptionSet struct {
	mu      sync.Mutex
	cancels []context.CancelFunc
}

func NewSubscriptionSet() *SubscriptionSet {
	return &SubscriptionSet{}
}

func (s *SubscriptionSet) Add(cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels = append(s.cancels, cancel)
}

// CancelAll invokes every held handle once and empties the set.
func (s *SubscriptionSet) CancelAll() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Len reports the number of held handles.
func (s *SubscriptionSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}
