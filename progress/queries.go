package progress

// Derived read-only views over the store. None of these mutate state.

// recount tallies the lessons flagged complete in a course record.
func recount(cp *CourseProgress) int {
	count := 0
	for _, lp := range cp.Lessons {
		if lp.Completed {
			count++
		}
	}
	return count
}

// CompletionPercentage returns how much of a course is completed, in [0, 100].
// A course with no known lessons is 0%, never a division by zero.
func (s *Store) CompletionPercentage(courseID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.data.Courses[courseID]
	if !ok || cp.TotalLessons == 0 {
		return 0
	}
	return float64(cp.CompletedLessons) / float64(cp.TotalLessons) * 100
}

// LastWatchedCourse returns the id of the most recently watched course.
// Identical timestamps tie-break to the lexicographically smallest id so the
// answer is deterministic across map iteration orders.
func (s *Store) LastWatchedCourse() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best string
	found := false
	for id, cp := range s.data.Courses {
		if cp.LastWatched.IsZero() {
			continue
		}
		if !found {
			best = id
			found = true
			continue
		}
		latest := s.data.Courses[best].LastWatched
		if cp.LastWatched.After(latest) || (cp.LastWatched.Equal(latest) && id < best) {
			best = id
		}
	}
	return best, found
}

// TotalWatchTime sums every lesson's watched duration across all courses, in seconds.
func (s *Store) TotalWatchTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, cp := range s.data.Courses {
		for _, lp := range cp.Lessons {
			total += lp.WatchedDuration
		}
	}
	return total
}

// CompletedCourseCount counts courses whose every known lesson is completed.
func (s *Store) CompletedCourseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, cp := range s.data.Courses {
		if cp.TotalLessons > 0 && cp.CompletedLessons == cp.TotalLessons {
			count++
		}
	}
	return count
}

// InProgressCourseCount counts courses that are started but not finished.
func (s *Store) InProgressCourseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, cp := range s.data.Courses {
		if cp.CompletedLessons > 0 && cp.CompletedLessons < cp.TotalLessons {
			count++
		}
	}
	return count
}

// Recount returns a fresh tally of a course's completed lessons, bypassing
// the cached counter. Intended for tests and debugging to detect drift.
func (s *Store) Recount(courseID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.data.Courses[courseID]
	if !ok {
		return 0
	}
	return recount(cp)
}
