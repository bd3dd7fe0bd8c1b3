// Package progress implements per-course watch state: in-memory transitions,
// JSON persistence with retries, import merging, and save scheduling.
package progress

import (
	"time"

	"github.com/coursa-cli/coursa/constant"
)

// LessonProgress is the persisted watch state of a single lesson.
type LessonProgress struct {
	Completed bool `json:"completed"`

	// WatchedDuration accumulates total seconds watched across sessions.
	// It only grows, and may exceed the lesson's own duration on rewatch.
	WatchedDuration float64 `json:"watchedDuration"`

	// LastPosition is the resume point in seconds.
	LastPosition float64 `json:"lastPosition"`

	LastWatched time.Time `json:"lastWatched,omitzero"`
	CompletedAt time.Time `json:"completedAt,omitzero"`
}

// CourseProgress is the persisted watch state of a course, keyed by course id
// in the root document.
type CourseProgress struct {
	LastWatched   time.Time `json:"lastWatched,omitzero"`
	CurrentLesson string    `json:"currentLesson,omitempty"`
	CurrentTime   float64   `json:"currentTime"`

	Lessons map[string]*LessonProgress `json:"lessons"`

	// CompletedLessons and TotalLessons are cached counters maintained by the
	// store transitions. Mutating Lessons outside the store can make them
	// drift; Recount exists to detect that.
	CompletedLessons int `json:"completedLessons"`
	TotalLessons     int `json:"totalLessons"`
}

// Data is the root document persisted to the progress file.
type Data struct {
	Courses  map[string]*CourseProgress `json:"courses"`
	Version  string                     `json:"version,omitempty"`
	LastSync time.Time                  `json:"lastSync,omitzero"`
}

// NewData returns an empty progress document tagged with the current schema version.
func NewData() *Data {
	return &Data{
		Courses: make(map[string]*CourseProgress),
		Version: constant.ProgressSchemaVersion,
	}
}

// Clone returns a deep copy of the document, safe to hand to a concurrent writer.
func (d *Data) Clone() *Data {
	c := &Data{
		Courses:  make(map[string]*CourseProgress, len(d.Courses)),
		Version:  d.Version,
		LastSync: d.LastSync,
	}

	for id, cp := range d.Courses {
		copied := *cp
		copied.Lessons = make(map[string]*LessonProgress, len(cp.Lessons))
		for lid, lp := range cp.Lessons {
			lesson := *lp
			copied.Lessons[lid] = &lesson
		}
		c.Courses[id] = &copied
	}

	return c
}
