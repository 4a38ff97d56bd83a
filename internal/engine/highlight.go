package engine

import (
	"sync"
	"time"
)

// highlightLoop is the cancellable handle around the highlight goroutine.
// The loop has no assignment authority: it only publishes a random
// available seat into the session on every tick while the draw runs.
type highlightLoop struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newHighlightLoop() *highlightLoop {
	return &highlightLoop{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// cancel stops the loop and waits for the goroutine to exit.  Safe to call
// more than once.
func (l *highlightLoop) cancel() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

// run ticks until cancelled.  Each tick re-checks under the session lock
// that this loop is still the active one and the draw is still running, so
// a superseded or stopped loop never publishes again even while its
// cancellation is in flight.
func (l *highlightLoop) run(s *Session) {
	defer close(l.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			s.publishHighlight(l)
		}
	}
}

// publishHighlight picks a uniformly random available seat and stores it
// as the current highlight.
func (s *Session) publishHighlight(l *highlightLoop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop != l || s.state != StateRunning {
		return
	}
	avail := s.snap.availableSeatIDs()
	if len(avail) == 0 {
		return
	}
	s.highlighted = avail[s.rng.Intn(len(avail))]
}
