package progress

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func dataWithLesson(courseID, lessonID string, lp LessonProgress) *Data {
	d := NewData()
	d.Courses[courseID] = &CourseProgress{
		Lessons: map[string]*LessonProgress{lessonID: &lp},
	}
	return d
}

func TestMerge(t *testing.T) {
	earlier := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := earlier.Add(48 * time.Hour)

	Convey("Courses present on only one side are carried through", t, func() {
		a := dataWithLesson("only-a", "l1", LessonProgress{WatchedDuration: 10})
		b := dataWithLesson("only-b", "l1", LessonProgress{WatchedDuration: 20})

		merged := Merge(a, b)
		So(merged.Courses, ShouldContainKey, "only-a")
		So(merged.Courses, ShouldContainKey, "only-b")
	})

	Convey("WatchedDuration merges commutatively to the maximum", t, func() {
		a := dataWithLesson("c", "l1", LessonProgress{WatchedDuration: 100})
		b := dataWithLesson("c", "l1", LessonProgress{WatchedDuration: 250})

		ab := Merge(a, b).Courses["c"].Lessons["l1"].WatchedDuration
		ba := Merge(b, a).Courses["c"].Lessons["l1"].WatchedDuration

		So(ab, ShouldEqual, 250)
		So(ba, ShouldEqual, 250)
	})

	Convey("Completion never regresses", t, func() {
		done := dataWithLesson("c", "l1", LessonProgress{Completed: true, CompletedAt: earlier})
		fresh := dataWithLesson("c", "l1", LessonProgress{})

		So(Merge(done, fresh).Courses["c"].Lessons["l1"].Completed, ShouldBeTrue)
		So(Merge(fresh, done).Courses["c"].Lessons["l1"].Completed, ShouldBeTrue)
	})

	Convey("The first completion timestamp wins", t, func() {
		a := dataWithLesson("c", "l1", LessonProgress{Completed: true, CompletedAt: later})
		b := dataWithLesson("c", "l1", LessonProgress{Completed: true, CompletedAt: earlier})

		So(Merge(a, b).Courses["c"].Lessons["l1"].CompletedAt, ShouldEqual, earlier)
		So(Merge(b, a).Courses["c"].Lessons["l1"].CompletedAt, ShouldEqual, earlier)
	})

	Convey("Course LastWatched keeps the chronologically later timestamp", t, func() {
		a := NewData()
		a.Courses["c"] = &CourseProgress{LastWatched: later, Lessons: map[string]*LessonProgress{}}
		b := NewData()
		b.Courses["c"] = &CourseProgress{LastWatched: earlier, Lessons: map[string]*LessonProgress{}}

		So(Merge(a, b).Courses["c"].LastWatched, ShouldEqual, later)
		So(Merge(b, a).Courses["c"].LastWatched, ShouldEqual, later)
	})

	Convey("Incoming top-level fields take precedence when present", t, func() {
		existing := NewData()
		existing.Courses["c"] = &CourseProgress{
			CurrentLesson: "l1",
			CurrentTime:   11,
			TotalLessons:  5,
			Lessons:       map[string]*LessonProgress{},
		}
		incoming := NewData()
		incoming.Courses["c"] = &CourseProgress{
			CurrentLesson: "l2",
			CurrentTime:   99,
			Lessons:       map[string]*LessonProgress{},
		}

		merged := Merge(existing, incoming).Courses["c"]
		So(merged.CurrentLesson, ShouldEqual, "l2")
		So(merged.CurrentTime, ShouldEqual, 99)
		// absent on the incoming side, so the existing value survives
		So(merged.TotalLessons, ShouldEqual, 5)
	})

	Convey("The merged completed counter matches a fresh recount", t, func() {
		a := dataWithLesson("c", "l1", LessonProgress{Completed: true, CompletedAt: earlier})
		b := dataWithLesson("c", "l2", LessonProgress{Completed: true, CompletedAt: later})

		merged := Merge(a, b).Courses["c"]
		So(merged.CompletedLessons, ShouldEqual, 2)
	})
}
