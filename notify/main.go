// Package notify fans values out to any number of subscribed channels.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// DefaultTimeout is how long a send waits for each subscriber.
const DefaultTimeout = 200 * time.Millisecond

type subscriber[E any] struct {
	ch      chan E
	comment string
}

// Multiplexer delivers every sent value to all of its subscribers, in subscription order.
type Multiplexer[E any] struct {
	comment string
	timeout time.Duration

	// sendLock keeps values in order when Send is called from a single goroutine.
	sendLock        sync.Mutex
	subscribersLock sync.Mutex
	subscribers     []subscriber[E]
}

func NewMultiplexer[E any](comment string) *Multiplexer[E] {
	return &Multiplexer[E]{
		comment: comment,
		timeout: DefaultTimeout,
	}
}

// SetTimeout changes how long a send waits for a slow subscriber before skipping it.
func (m *Multiplexer[E]) SetTimeout(d time.Duration) {
	m.subscribersLock.Lock()
	defer m.subscribersLock.Unlock()
	m.timeout = d
}

func (m *Multiplexer[E]) Subscribe(comment string, c chan E) {
	m.subscribersLock.Lock()
	defer m.subscribersLock.Unlock()
	m.subscribers = append(m.subscribers, subscriber[E]{ch: c, comment: comment})
}

// Unsubscribe panics if c is not subscribed.
func (m *Multiplexer[E]) Unsubscribe(c chan E) {
	m.subscribersLock.Lock()
	defer m.subscribersLock.Unlock()
	i := slices.IndexFunc(m.subscribers, func(sub subscriber[E]) bool { return sub.ch == c })
	if i == -1 {
		panic("already unsubscribed")
	}
	m.subscribers = slices.Delete(m.subscribers, i, i+1)
}

// Len returns the number of subscribers.
func (m *Multiplexer[E]) Len() int {
	m.subscribersLock.Lock()
	defer m.subscribersLock.Unlock()
	return len(m.subscribers)
}

// Send delivers e to every subscriber, blocking up to the timeout for each one.
func (m *Multiplexer[E]) Send(e E) {
	m.sendLock.Lock()
	defer m.sendLock.Unlock()
	m.subscribersLock.Lock()
	subs := slices.Clone(m.subscribers)
	timeout := m.timeout
	m.subscribersLock.Unlock()
	for _, sub := range subs {
		timer := time.NewTimer(timeout)
		select {
		case sub.ch <- e:
			timer.Stop()
		case <-timer.C:
			zap.S().Warnf("multiplexer %s: subscriber %s timed out", m.comment, sub.comment)
		}
	}
}
