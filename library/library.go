// Package library manages the user's collection of watched course folders and
// the courses loaded from them.
package library

import (
	"sync"

	"github.com/coursa-cli/coursa/course"
	"github.com/coursa-cli/coursa/filesystem"
	"github.com/coursa-cli/coursa/log"
	"github.com/coursa-cli/coursa/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Library tracks the set of watched folders, the deduplicated courses loaded
// from them, and the currently selected course. The folder set is persisted
// through a disk-backed registry; courses live only in memory and are
// reloaded from their manifests.
type Library struct {
	mu       sync.Mutex
	folders  *gache.Cache[[]string]
	courses  []*course.Course
	selected string
}

// New returns a library whose folder registry persists at the standard location.
func New() *Library {
	return &Library{
		folders: gache.New[[]string](
			&gache.Options{
				Path:       where.Library(),
				FileSystem: &filesystem.GacheFs{},
			},
		),
	}
}

// Folders returns the persisted watched folder set.
func (l *Library) Folders() ([]string, error) {
	cached, expired, err := l.folders.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []string{}, nil
	}
	return cached, nil
}

// AddFolder registers a course folder. Folders are a set keyed by exact
// string equality; adding a known path is a no-op.
func (l *Library) AddFolder(path string) error {
	folders, err := l.Folders()
	if err != nil {
		return err
	}

	if slices.Contains(folders, path) {
		return nil
	}

	return l.folders.Set(append(folders, path))
}

// RemoveFolder unregisters a folder and evicts every loaded course located in
// it. If the selected course lived there, the selection is cleared too.
// Progress records are deliberately left alone: re-adding the folder later
// restores the courses with their history intact.
func (l *Library) RemoveFolder(path string) error {
	folders, err := l.Folders()
	if err != nil {
		return err
	}

	remaining := lo.Filter(folders, func(f string, _ int) bool {
		return f != path
	})
	if err := l.folders.Set(remaining); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, c := range l.courses {
		if c.FolderPath == path && c.ID == l.selected {
			l.selected = ""
		}
	}
	l.courses = lo.Filter(l.courses, func(c *course.Course, _ int) bool {
		return c.FolderPath != path
	})

	return nil
}

// LoadOne loads the course from a single folder into the collection.
// On failure the error propagates to the caller.
func (l *Library) LoadOne(folderPath string) (*course.Course, error) {
	c, err := course.Load(folderPath)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.insert(c)

	return c, nil
}

// LoadMany loads every given folder, skipping and logging the ones that fail
// so one broken manifest never takes down the whole batch. Courses are
// deduplicated by id; the last loaded wins on collision.
func (l *Library) LoadMany(folderPaths []string) []*course.Course {
	var loaded []*course.Course
	for _, folder := range folderPaths {
		c, err := course.Load(folder)
		if err != nil {
			log.Warnf("skipping course folder %s: %s", folder, err)
			continue
		}
		loaded = append(loaded, c)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range loaded {
		l.insert(c)
	}

	return loaded
}

// Reload loads every watched folder from scratch.
func (l *Library) Reload() ([]*course.Course, error) {
	folders, err := l.Folders()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.courses = nil
	l.mu.Unlock()

	return l.LoadMany(folders), nil
}

// insert adds or replaces a course by id. Callers must hold the mutex.
func (l *Library) insert(c *course.Course) {
	for i, existing := range l.courses {
		if existing.ID == c.ID {
			l.courses[i] = c
			return
		}
	}
	l.courses = append(l.courses, c)
}

// Courses returns the loaded collection in load order.
func (l *Library) Courses() []*course.Course {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.courses)
}

// CourseByID locates a loaded course.
func (l *Library) CourseByID(id string) (*course.Course, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, c := range l.courses {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Select marks a course as the current one.
func (l *Library) Select(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = id
}

// Selected returns the currently selected course id, if any.
func (l *Library) Selected() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}
