package fetcher

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrHostUnavailable is returned while a host's breaker is open.
var ErrHostUnavailable = eris.New("fetcher: host temporarily unavailable")

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerProbing
)

func (s breakerState) String() string {
	switch s {
	case breakerClosed:
		return "closed"
	case breakerOpen:
		return "open"
	case breakerProbing:
		return "probing"
	default:
		return "unknown"
	}
}

// hostBreaker stops requests to a host after threshold consecutive failed
// downloads. After cooldown a single probe is let through; its outcome
// closes or reopens the breaker.
type hostBreaker struct {
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time
}

func newHostBreaker(threshold int, cooldown time.Duration) *hostBreaker {
	return &hostBreaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// allow reports whether a request may proceed.
func (b *hostBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return ErrHostUnavailable
		}
		b.state = breakerProbing
		return nil
	case breakerProbing:
		// One probe at a time.
		return ErrHostUnavailable
	default:
		return nil
	}
}

func (b *hostBreaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = breakerClosed
		b.failures = 0
		return
	}

	b.failures++
	if b.state == breakerProbing || b.failures >= b.threshold {
		b.state = breakerOpen
		b.openedAt = b.now()
	}
}

// abandon returns a cancelled probe's slot without judging the host.
func (b *hostBreaker) abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == breakerProbing {
		b.state = breakerOpen
	}
}

func (b *hostBreaker) current() breakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
