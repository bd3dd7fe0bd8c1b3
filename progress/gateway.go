package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coursa-cli/coursa/filesystem"
	"github.com/coursa-cli/coursa/log"
)

// maxSaveAttempts bounds the retry loop of Save.
const maxSaveAttempts = 3

// backoffSchedule is the fixed table of delays between save attempts. It is a
// literal table, not a multiplicative policy; should the attempt count ever
// exceed the table, the last entry is reused.
var backoffSchedule = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
}

// attemptDelay returns the delay to wait after the given failed attempt
// (1-based). Kept pure so the retry timing is testable without I/O.
func attemptDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > len(backoffSchedule) {
		attempt = len(backoffSchedule)
	}
	return backoffSchedule[attempt-1]
}

// Gateway persists progress documents to a single JSON file.
//
// Load never fails: anything wrong with the file degrades to an empty
// document. Save is the one operation allowed to surface failure, because its
// caller has to know whether the dirty state was flushed.
type Gateway struct {
	path string

	// sleep is swapped for a recorder in tests so retries run instantly.
	sleep func(time.Duration)
}

// NewGateway returns a gateway bound to the given file path.
func NewGateway(path string) *Gateway {
	return &Gateway{
		path:  path,
		sleep: time.Sleep,
	}
}

// Load reads the persisted progress document.
//
// A missing file is normal (first run) and silently yields an empty document.
// A file that exists but does not validate is a sign of user-visible data
// loss, so it is logged as a warning before degrading to empty. Callers never
// need error handling around Load.
func (g *Gateway) Load() *Data {
	raw, err := filesystem.API().ReadFile(g.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("progress file unreadable, starting empty: %s", err)
		}
		return NewData()
	}

	data, err := Validate(raw)
	if err != nil {
		log.Warnf("progress file corrupt, starting empty: %s", err)
		return NewData()
	}

	return data
}

// Save persists a document, retrying transient failures up to maxSaveAttempts
// times with the fixed backoff schedule. After exhausting all attempts it
// returns an error naming the attempt count and the last underlying failure;
// the caller must keep its dirty flag set in that case.
func (g *Gateway) Save(data *Data) error {
	var lastErr error

	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		lastErr = g.write(data)
		if lastErr == nil {
			if attempt > 1 {
				log.Infof("progress saved after %d attempts", attempt)
			}
			return nil
		}

		log.Warnf("progress save attempt %d failed: %s", attempt, lastErr)
		if attempt < maxSaveAttempts {
			g.sleep(attemptDelay(attempt))
		}
	}

	return fmt.Errorf("save progress failed after %d attempts: %w", maxSaveAttempts, lastErr)
}

// write performs a single serialization and atomic file swap.
func (g *Gateway) write(data *Data) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	fs := filesystem.API()
	tmp := g.path + ".tmp"
	if err := fs.WriteFile(tmp, payload, 0644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	if err := fs.Rename(tmp, g.path); err != nil {
		return fmt.Errorf("swap progress file: %w", err)
	}

	return nil
}
