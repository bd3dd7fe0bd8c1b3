package course

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coursa-cli/coursa/constant"
	"github.com/coursa-cli/coursa/filesystem"
)

// ErrManifestNotFound indicates that a folder contains no course.json document.
var ErrManifestNotFound = errors.New("course manifest not found")

// ReadManifest returns the raw course.json document of a course folder.
// A missing file is reported as ErrManifestNotFound so callers can tell an
// unregistered folder apart from an unreadable one.
func ReadManifest(folderPath string) ([]byte, error) {
	path := filepath.Join(folderPath, constant.Manifest)

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	return data, nil
}

// Load reads, validates, and enriches the course described by a folder's
// manifest, recording the folder as the course's runtime location.
func Load(folderPath string) (*Course, error) {
	data, err := ReadManifest(folderPath)
	if err != nil {
		return nil, err
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	c.Enrich()
	c.FolderPath = folderPath
	return c, nil
}

// VideoPath resolves a lesson's video location against the course folder.
func (c *Course) VideoPath(lesson Lesson) string {
	return filepath.Join(c.FolderPath, lesson.VideoPath)
}

// NotesPath resolves a lesson's markdown notes location against the course folder.
// Returns false when the lesson has no notes.
func (c *Course) NotesPath(lesson Lesson) (string, bool) {
	if lesson.Notes == "" {
		return "", false
	}
	return filepath.Join(c.FolderPath, lesson.Notes), true
}
