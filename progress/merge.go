package progress

// Merge unions two progress documents, used when importing a progress file on
// top of the existing one.
//
// Courses present on only one side are carried through unchanged. For courses
// on both sides the incoming record wins field-by-field, with two exceptions:
// LastWatched keeps the chronologically later timestamp, and Lessons are
// merged per lesson instead of overwritten. Per-lesson rules guarantee that
// watch history never regresses: WatchedDuration takes the maximum,
// Completed is a logical OR, and CompletedAt keeps the earliest recorded
// completion.
func Merge(existing, incoming *Data) *Data {
	merged := NewData()
	if existing != nil {
		merged.Version = existing.Version
		merged.LastSync = existing.LastSync
	}
	if incoming != nil {
		if incoming.Version != "" {
			merged.Version = incoming.Version
		}
		if incoming.LastSync.After(merged.LastSync) {
			merged.LastSync = incoming.LastSync
		}
	}

	if existing != nil {
		for id, cp := range existing.Courses {
			merged.Courses[id] = cp
		}
	}
	if incoming == nil {
		return merged.Clone()
	}

	for id, in := range incoming.Courses {
		ex, both := merged.Courses[id]
		if !both {
			merged.Courses[id] = in
			continue
		}
		merged.Courses[id] = mergeCourse(ex, in)
	}

	return merged.Clone()
}

func mergeCourse(existing, incoming *CourseProgress) *CourseProgress {
	out := *incoming

	// Most recent activity wins regardless of which side it came from.
	if existing.LastWatched.After(incoming.LastWatched) {
		out.LastWatched = existing.LastWatched
	}

	// Incoming values win only when actually present.
	if out.CurrentLesson == "" {
		out.CurrentLesson = existing.CurrentLesson
		out.CurrentTime = existing.CurrentTime
	}
	if out.TotalLessons == 0 {
		out.TotalLessons = existing.TotalLessons
	}

	out.Lessons = make(map[string]*LessonProgress, len(existing.Lessons)+len(incoming.Lessons))
	for id, lp := range existing.Lessons {
		out.Lessons[id] = lp
	}
	for id, in := range incoming.Lessons {
		ex, both := out.Lessons[id]
		if !both {
			out.Lessons[id] = in
			continue
		}
		out.Lessons[id] = mergeLesson(ex, in)
	}

	out.CompletedLessons = recount(&out)
	return &out
}

func mergeLesson(existing, incoming *LessonProgress) *LessonProgress {
	out := *incoming

	// Watch time never regresses.
	if existing.WatchedDuration > incoming.WatchedDuration {
		out.WatchedDuration = existing.WatchedDuration
	}

	// Once completed anywhere, stays completed; the first completion wins.
	out.Completed = existing.Completed || incoming.Completed
	switch {
	case incoming.CompletedAt.IsZero():
		out.CompletedAt = existing.CompletedAt
	case existing.CompletedAt.IsZero():
		out.CompletedAt = incoming.CompletedAt
	case existing.CompletedAt.Before(incoming.CompletedAt):
		out.CompletedAt = existing.CompletedAt
	}

	if out.LastPosition == 0 {
		out.LastPosition = existing.LastPosition
	}
	if existing.LastWatched.After(incoming.LastWatched) {
		out.LastWatched = existing.LastWatched
	}

	return &out
}
