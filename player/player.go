// Package player drives external media playback engines. The primary
// implementation targets mpv through its JSON-IPC socket.
package player

// Player is the capability set a playback backend has to provide for
// lesson playback with progress polling.
type Player interface {
	// Play starts playback of the given media path under the given window
	// title, seeking to startAt seconds. If an instance is already running,
	// the new file is loaded into it.
	Play(path string, title string, startAt float64) error

	// TogglePause inverts the current pause state.
	TogglePause() error

	// GetTimePos returns the current playback position in seconds.
	GetTimePos() (float64, error)

	// GetDuration returns the total length of the active media in seconds.
	GetDuration() (float64, error)

	// GetPercentWatched returns the playback completion percentage (0-100).
	GetPercentWatched() (float64, error)

	// GetPausedStatus reports whether playback is paused.
	GetPausedStatus() (bool, error)

	// HasActivePlayback reports whether a media file is loaded and active.
	HasActivePlayback() (bool, error)

	// Seek moves playback to an absolute timestamp in seconds.
	Seek(seconds float64) error

	// IsRunning reports whether the backing process still answers commands.
	IsRunning() bool

	// Close terminates the engine and releases its resources.
	Close() error

	// Socket returns the IPC channel identifier.
	Socket() string

	// StartIPCTicker polls playback position at 1Hz and invokes the
	// callback with the current position and duration.
	StartIPCTicker(callback func(timePos int, duration int))

	// StopIPCTicker stops the polling task.
	StopIPCTicker()

	// Wait returns a channel that is closed when the playback session ends.
	Wait() <-chan struct{}
}
