package progress

import (
	"errors"
	"sync"
	"time"
)

// ErrSuperseded settles a scheduled save that was replaced by a newer
// snapshot before it could be written. It is not a failure; callers should
// ignore it rather than surface it.
var ErrSuperseded = errors.New("scheduled save superseded by a newer snapshot")

// SchedulerState names the phases of the debounce state machine.
type SchedulerState int

const (
	// SchedulerIdle means no save is queued or running.
	SchedulerIdle SchedulerState = iota
	// SchedulerPending means a snapshot is queued behind the idle timer.
	SchedulerPending
	// SchedulerInFlight means the underlying save is currently executing.
	SchedulerInFlight
)

// Scheduler coalesces bursts of progress updates into a single write: every
// Schedule call restarts a fixed idle timer carrying the latest snapshot, and
// only the snapshot alive when the timer fires is ever written. A pending
// timer is the only cancellable stage; once the save starts it runs to
// completion or retry exhaustion.
type Scheduler struct {
	mu    sync.Mutex
	delay time.Duration
	save  func(*Data) error

	state SchedulerState
	timer *time.Timer

	// seq identifies the newest Schedule call; a fire whose ticket no longer
	// matches was superseded and must not write.
	seq     uint64
	pending chan error
}

// NewScheduler returns a debounce scheduler with the given idle window,
// funneling fired saves into the provided function.
func NewScheduler(delay time.Duration, save func(*Data) error) *Scheduler {
	return &Scheduler{
		delay: delay,
		save:  save,
	}
}

// State reports the current phase of the state machine.
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Schedule queues a snapshot for saving after the idle window. If an earlier
// snapshot is still waiting, its timer is cancelled and its channel settles
// with ErrSuperseded. The returned channel settles exactly once with the
// outcome of the save, or with ErrSuperseded.
func (s *Scheduler) Schedule(snapshot *Data) <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked()

	done := make(chan error, 1)
	ticket := s.seq
	s.pending = done
	s.state = SchedulerPending
	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(ticket, snapshot, done)
	})

	return done
}

// Flush collapses the idle window of a pending save to zero so it executes
// immediately. Used on shutdown so the last snapshot is not lost.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SchedulerPending {
		s.timer.Reset(0)
	}
}

// Stop cancels any pending save without executing it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	s.state = SchedulerIdle
}

// supersedeLocked invalidates the currently pending save, if any, settling
// its channel with ErrSuperseded. Callers must hold the mutex.
func (s *Scheduler) supersedeLocked() {
	s.seq++
	if s.pending == nil {
		return
	}
	if s.timer.Stop() {
		// The timer never fired; settle here. Otherwise fire is already
		// running and will notice its stale ticket and settle the channel.
		s.pending <- ErrSuperseded
	}
	s.pending = nil
}

// fire runs the save for a snapshot whose idle timer expired.
func (s *Scheduler) fire(ticket uint64, snapshot *Data, done chan error) {
	s.mu.Lock()
	if ticket != s.seq {
		s.mu.Unlock()
		done <- ErrSuperseded
		return
	}
	s.state = SchedulerInFlight
	s.pending = nil
	s.mu.Unlock()

	err := s.save(snapshot)

	s.mu.Lock()
	if s.state == SchedulerInFlight {
		s.state = SchedulerIdle
	}
	s.mu.Unlock()

	done <- err
}
