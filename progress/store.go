package progress

import (
	"sync"
	"time"

	"github.com/coursa-cli/coursa/course"
)

// Store owns the in-memory progress state. It is explicitly constructed and
// passed around rather than kept as a package-level singleton, so tests get
// isolated instances. All transitions go through its methods; the mutex makes
// them safe to call from the playback ticker and the auto-save goroutine.
type Store struct {
	mu   sync.Mutex
	data *Data

	dirty  bool
	saving bool
	err    error

	// generation increments on every mutation; a finished save only clears
	// the dirty flag if nothing mutated while the write was in flight.
	generation uint64
	savedAt    uint64

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		data: NewData(),
		now:  time.Now,
	}
}

// Replace swaps in a freshly loaded document, resetting the dirty state.
func (s *Store) Replace(d *Data) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d == nil {
		d = NewData()
	}
	s.data = d
	s.dirty = false
	s.err = nil
}

// Snapshot returns a deep copy of the current document for persisting.
func (s *Store) Snapshot() *Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// courseEntry returns the progress record for a course, lazily creating it.
// Callers must hold the mutex.
func (s *Store) courseEntry(courseID string) *CourseProgress {
	cp, ok := s.data.Courses[courseID]
	if !ok {
		cp = &CourseProgress{Lessons: make(map[string]*LessonProgress)}
		s.data.Courses[courseID] = cp
	}
	if cp.Lessons == nil {
		cp.Lessons = make(map[string]*LessonProgress)
	}
	return cp
}

// lessonEntry returns the progress record for a lesson, lazily creating it
// with the given initial position. Callers must hold the mutex.
func (s *Store) lessonEntry(cp *CourseProgress, lessonID string, initialPosition float64) *LessonProgress {
	lp, ok := cp.Lessons[lessonID]
	if !ok {
		lp = &LessonProgress{LastPosition: initialPosition}
		cp.Lessons[lessonID] = lp
	}
	return lp
}

func (s *Store) touch() {
	s.dirty = true
	s.generation++
}

// SetCurrentTime records the playback position of a lesson, lazily creating
// the course and lesson records. Scheduling the resulting save is the
// caller's responsibility.
func (s *Store) SetCurrentTime(courseID, lessonID string, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := s.courseEntry(courseID)
	lp := s.lessonEntry(cp, lessonID, seconds)

	cp.CurrentLesson = lessonID
	cp.CurrentTime = seconds
	lp.LastPosition = seconds

	s.touch()
}

// LessonUpdate is a partial update; nil fields are left untouched.
type LessonUpdate struct {
	Completed       *bool
	WatchedDuration *float64
	LastPosition    *float64
}

// UpdateLessonProgress shallow-merges a partial update into a lesson's record,
// lazily creating it, and stamps the last-watched timestamps on both the
// lesson and its course.
func (s *Store) UpdateLessonProgress(courseID, lessonID string, update LessonUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := s.courseEntry(courseID)
	lp := s.lessonEntry(cp, lessonID, 0)

	if update.Completed != nil {
		lp.Completed = *update.Completed
	}
	if update.WatchedDuration != nil {
		lp.WatchedDuration = *update.WatchedDuration
	}
	if update.LastPosition != nil {
		lp.LastPosition = *update.LastPosition
	}

	stamp := s.now()
	lp.LastWatched = stamp
	cp.LastWatched = stamp

	s.touch()
}

// AddWatchedTime accumulates seconds onto a lesson's total watch time.
func (s *Store) AddWatchedTime(courseID, lessonID string, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := s.courseEntry(courseID)
	lp := s.lessonEntry(cp, lessonID, 0)
	lp.WatchedDuration += seconds

	stamp := s.now()
	lp.LastWatched = stamp
	cp.LastWatched = stamp

	s.touch()
}

// MarkLessonComplete flags an already-watched lesson as completed and
// refreshes the course's completed counter.
//
// Unlike the other transitions it never creates records: completing a lesson
// that has no progress entry is a silent no-op, so phantom records cannot
// appear for lessons that were never played.
func (s *Store) MarkLessonComplete(courseID, lessonID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.data.Courses[courseID]
	if !ok {
		return
	}
	lp, ok := cp.Lessons[lessonID]
	if !ok {
		return
	}

	lp.Completed = true
	lp.CompletedAt = s.now()
	cp.CompletedLessons = recount(cp)

	s.touch()
}

// MarkLessonIncomplete reverts a completion, clearing the completion
// timestamp and refreshing the counter.
func (s *Store) MarkLessonIncomplete(courseID, lessonID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.data.Courses[courseID]
	if !ok {
		return
	}
	lp, ok := cp.Lessons[lessonID]
	if !ok {
		return
	}

	lp.Completed = false
	lp.CompletedAt = time.Time{}
	cp.CompletedLessons = recount(cp)

	s.touch()
}

// InitializeFromCourse seeds a course's lesson totals so percentages are
// computable before anything has been watched. Existing lesson records are
// never touched; the completed counter is zeroed only when the record is new.
func (s *Store) InitializeFromCourse(c *course.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, existed := s.data.Courses[c.ID]
	if !existed {
		cp = &CourseProgress{Lessons: make(map[string]*LessonProgress)}
		s.data.Courses[c.ID] = cp
		cp.CompletedLessons = 0
	}
	cp.TotalLessons = c.TotalLessons

	s.touch()
}

// ClearCourseProgress deletes a course's entire progress entry.
func (s *Store) ClearCourseProgress(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data.Courses, courseID)
	s.touch()
}

// CourseProgress returns a copy of a course's record.
func (s *Store) CourseProgress(courseID string) (CourseProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.data.Courses[courseID]
	if !ok {
		return CourseProgress{}, false
	}
	return *cp, true
}

// LessonProgress returns a copy of a lesson's record.
func (s *Store) LessonProgress(courseID, lessonID string) (LessonProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.data.Courses[courseID]
	if !ok {
		return LessonProgress{}, false
	}
	lp, ok := cp.Lessons[lessonID]
	if !ok {
		return LessonProgress{}, false
	}
	return *lp, true
}

// Dirty-Tracking and Save Coordination - the dirty flag is the single source
// of truth for "disk differs from memory"; BeginSave/EndSave implement the
// in-flight guard shared by the debounce and auto-save paths.

// IsDirty reports whether the in-memory state differs from the last persisted state.
func (s *Store) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// IsSaving reports whether a save is currently in flight.
func (s *Store) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Err returns the most recent persistence failure, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// BeginSave marks a save as in flight. It refuses while another save is
// running, so overlapping writes to the same file cannot happen.
func (s *Store) BeginSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saving {
		return false
	}
	s.saving = true
	s.savedAt = s.generation
	return true
}

// EndSave finishes an in-flight save. On success the dirty flag is cleared
// unless the state mutated while the write was running; on failure it stays
// set so the data is retried later.
func (s *Store) EndSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saving = false
	s.err = err
	if err == nil && s.generation == s.savedAt {
		s.dirty = false
	}
}
