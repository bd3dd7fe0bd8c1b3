// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// It is built on the afero library so the backend can be swapped between the
// real OS filesystem and an in-memory one without touching call sites.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs initializes a volatile in-memory filesystem backend for unit testing and CI environments.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// Set installs an arbitrary filesystem backend. Intended for tests that wrap
// a backend with failure injection.
func Set(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}
