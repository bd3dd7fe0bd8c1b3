// Package cache maintains the on-disk cache directory.
package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/coursa-cli/coursa/filesystem"
	"github.com/coursa-cli/coursa/where"
)

// TTL is the retention window for cache entries. Files older than this are
// pruned on startup.
const TTL = 7 * 24 * time.Hour

// CollectGarbage prunes expired cache entries in the background.
func CollectGarbage() {
	go func() {
		dir := where.Cache()
		entries, err := filesystem.API().ReadDir(dir)
		if err != nil {
			return
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if time.Since(entry.ModTime()) > TTL {
				_ = filesystem.API().Remove(filepath.Join(dir, entry.Name()))
			}
		}
	}()
}

// Size reports the combined size in bytes of every cache entry.
func Size() (int64, error) {
	var total int64

	err := filesystem.API().Walk(where.Cache(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})

	return total, err
}
