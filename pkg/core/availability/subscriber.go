package availability

import (
	"sync"

	"github.com/robvandam12/breus-sub011/pkg/core/model"
)

// subscriberBuffer lets a slow reader miss at most the oldest of a burst of publishes
const subscriberBuffer = 4

// statusSubscriber receives every status map published after it subscribed
type statusSubscriber struct {
	ch     chan model.StatusMap
	mu     sync.Mutex
	closed bool
}

func newStatusSubscriber() *statusSubscriber {
	return &statusSubscriber{ch: make(chan model.StatusMap, subscriberBuffer)}
}

// trySend delivers without blocking the publisher.
// A full buffer drops the update; the reader can always call Status().
func (s *statusSubscriber) trySend(status model.StatusMap) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	select {
	case s.ch <- status:
		return true
	default:
		return false
	}
}

func (s *statusSubscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
