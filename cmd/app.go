package cmd

import (
	"time"

	"github.com/coursa-cli/coursa/key"
	"github.com/coursa-cli/coursa/library"
	"github.com/coursa-cli/coursa/progress"
	"github.com/coursa-cli/coursa/where"
	"github.com/spf13/viper"
)

// openLibrary returns the library with every watched folder loaded.
// Broken folders are skipped and logged, never fatal.
func openLibrary() *library.Library {
	lib := library.New()

	if !viper.GetBool(key.LibraryLoadOnStart) {
		return lib
	}

	folders, err := lib.Folders()
	handleErr(err)
	lib.LoadMany(folders)

	return lib
}

// openProgress returns a store primed from disk together with its gateway.
func openProgress() (*progress.Store, *progress.Gateway) {
	gateway := progress.NewGateway(where.Progress())
	store := progress.NewStore()
	store.Replace(gateway.Load())
	return store, gateway
}

// debounceWindow returns the configured write-coalescing window.
func debounceWindow() time.Duration {
	return time.Duration(viper.GetInt(key.ProgressDebounceMs)) * time.Millisecond
}

// autosaveInterval returns the configured periodic save interval.
func autosaveInterval() time.Duration {
	return time.Duration(viper.GetInt(key.ProgressAutosaveSeconds)) * time.Second
}
