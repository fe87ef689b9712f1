// Package event provides a replay-last broadcast feed. A feed fans values
// out to any number of subscribers, replays the most recent value to late
// subscribers, and terminates subscribers that cannot keep up instead of
// blocking the producer. Values land in per-subscriber buffers; subscribers
// consume them on their own goroutines.
package event

import (
	"sync"

	gethevent "github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
)

// ErrBufferOverrun is delivered on a subscription's error channel when the
// subscriber's buffer fills up. The subscription is terminated.
var ErrBufferOverrun = errors.New("subscriber buffer overrun")

const minSubscriberBuffer = 1

// Feed is a replay-last broadcast channel. The zero value is not usable,
// construct instances with NewFeed.
type Feed struct {
	name string

	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	last    interface{}
	hasLast bool
	closed  bool
}

// Subscription represents a single subscriber of a Feed. It satisfies the
// go-ethereum event.Subscription interface.
type Subscription struct {
	feed *Feed
	ch   chan interface{}
	err  chan error
	once sync.Once
}

var _ gethevent.Subscription = (*Subscription)(nil)

// NewFeed creates a feed. The name is used only for diagnostics.
func NewFeed(name string) *Feed {
	return &Feed{
		name: name,
		subs: make(map[*Subscription]struct{}),
	}
}

// Send delivers a value into every subscriber's buffer. It never blocks: a
// subscriber whose buffer is full is detached with ErrBufferOverrun so the
// remaining subscribers are unaffected. Sending on a closed feed is a no-op.
func (f *Feed) Send(value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	for sub := range f.subs {
		select {
		case sub.ch <- value:
		default:
			delete(f.subs, sub)
			sub.err <- errors.Wrapf(ErrBufferOverrun, "feed %s", f.name)
			close(sub.err)
			close(sub.ch)
		}
	}
	f.last = value
	f.hasLast = true
}

// Subscribe registers a new subscriber with the given buffer size. If the
// feed has already carried a value, the most recent one is replayed into the
// subscriber's buffer before any live values.
func (f *Feed) Subscribe(buffer int) *Subscription {
	if buffer < minSubscriberBuffer {
		buffer = minSubscriberBuffer
	}
	sub := &Subscription{
		feed: f,
		ch:   make(chan interface{}, buffer),
		err:  make(chan error, 1),
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasLast {
		sub.ch <- f.last
	}
	if f.closed {
		close(sub.ch)
		close(sub.err)
		return sub
	}
	f.subs[sub] = struct{}{}
	return sub
}

// Close completes every subscriber channel. Further sends are dropped.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for sub := range f.subs {
		delete(f.subs, sub)
		close(sub.ch)
		close(sub.err)
	}
}

func (f *Feed) remove(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[sub]; ok {
		delete(f.subs, sub)
		close(sub.ch)
		close(sub.err)
	}
}

// Chan returns the channel values are delivered on. The channel is closed
// when the subscription ends, whether by Unsubscribe, overrun or feed close.
func (s *Subscription) Chan() <-chan interface{} {
	return s.ch
}

// Err returns the channel a terminal subscription error, if any, is
// delivered on. It is closed when the subscription ends.
func (s *Subscription) Err() <-chan error {
	return s.err
}

// Unsubscribe detaches the subscription from its feed.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.remove(s)
	})
}
