package progress

import (
	"context"
	"time"

	"github.com/coursa-cli/coursa/log"
)

// Saver ties a Store to a Gateway: it owns the debounced save path and the
// periodic auto-save loop, and keeps the store's dirty/saving flags honest
// around every write.
type Saver struct {
	store     *Store
	gateway   *Gateway
	scheduler *Scheduler
}

// NewSaver wires a store and gateway together with a debounce scheduler using
// the given idle window.
func NewSaver(store *Store, gateway *Gateway, debounce time.Duration) *Saver {
	s := &Saver{
		store:   store,
		gateway: gateway,
	}
	s.scheduler = NewScheduler(debounce, s.saveSnapshot)
	return s
}

// Schedule queues the store's current state behind the debounce window.
// Bursts of mutations collapse into one write carrying the newest snapshot.
func (s *Saver) Schedule() <-chan error {
	return s.scheduler.Schedule(s.store.Snapshot())
}

// Flush forces any pending debounced save to execute immediately and then
// performs a final synchronous save if the store is still dirty. Called on
// shutdown.
func (s *Saver) Flush() error {
	s.scheduler.Stop()
	if !s.store.IsDirty() {
		return nil
	}
	return s.SaveNow()
}

// SaveNow persists the current state synchronously, honoring the in-flight
// guard: when another save is already running it does nothing, leaving the
// dirty flag for that save (or a later one) to resolve.
func (s *Saver) SaveNow() error {
	return s.saveSnapshot(s.store.Snapshot())
}

// saveSnapshot is the single funnel through which both save paths write.
func (s *Saver) saveSnapshot(data *Data) error {
	if !s.store.BeginSave() {
		return nil
	}
	err := s.gateway.Save(data)
	s.store.EndSave(err)
	return err
}

// AutoSave runs the coarse-grained periodic save loop until the context is
// canceled. It exists for long uninterrupted playback, which never restarts
// the debounce timer: every interval it flushes if, and only if, the store is
// dirty and no save is already in flight.
func (s *Saver) AutoSave(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.store.IsDirty() || s.store.IsSaving() {
				continue
			}
			if err := s.SaveNow(); err != nil {
				log.Errorf("auto-save failed: %s", err)
			}
		}
	}
}
