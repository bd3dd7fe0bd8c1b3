package library

import (
	"strings"

	"github.com/coursa-cli/coursa/course"
	"github.com/coursa-cli/coursa/progress"
	"github.com/samber/lo"
)

// Completion buckets courses by how far the user got through them.
type Completion int

const (
	CompletionAny Completion = iota
	CompletionNotStarted
	CompletionInProgress
	CompletionCompleted
)

// Filter narrows a course collection. Zero-valued fields match everything,
// set fields compose with AND.
type Filter struct {
	// Query matches case-insensitively against title, description and instructor.
	Query string

	// Instructor requires an exact instructor match.
	Instructor string

	// Completion restricts to a progress bucket.
	Completion Completion
}

// Apply returns the courses that satisfy every set field of the filter.
// The store supplies progress for the completion bucket; it may be nil when
// Completion is CompletionAny.
func (f Filter) Apply(courses []*course.Course, store *progress.Store) []*course.Course {
	return lo.Filter(courses, func(c *course.Course, _ int) bool {
		return f.matches(c, store)
	})
}

func (f Filter) matches(c *course.Course, store *progress.Store) bool {
	if f.Query != "" && !matchesQuery(c, f.Query) {
		return false
	}

	if f.Instructor != "" && c.Instructor != f.Instructor {
		return false
	}

	if f.Completion != CompletionAny && bucket(c, store) != f.Completion {
		return false
	}

	return true
}

func matchesQuery(c *course.Course, query string) bool {
	query = strings.ToLower(query)
	for _, field := range []string{c.Title, c.Description, c.Instructor} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func bucket(c *course.Course, store *progress.Store) Completion {
	// A course without lessons can never be started, whatever stale
	// progress records claim.
	if c.TotalLessons == 0 {
		return CompletionNotStarted
	}

	cp, ok := store.CourseProgress(c.ID)
	if !ok || cp.CompletedLessons == 0 {
		return CompletionNotStarted
	}
	if cp.CompletedLessons >= c.TotalLessons {
		return CompletionCompleted
	}
	return CompletionInProgress
}
