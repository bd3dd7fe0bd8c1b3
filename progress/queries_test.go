package progress

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompletionPercentage(t *testing.T) {
	Convey("Given a store", t, func() {
		s := NewStore()

		Convey("An unknown course is 0%", func() {
			So(s.CompletionPercentage("nope"), ShouldEqual, 0)
		})

		Convey("A course with zero total lessons is 0%, never a division by zero", func() {
			s.SetCurrentTime("c", "l1", 5)
			So(s.CompletionPercentage("c"), ShouldEqual, 0)
		})

		Convey("Percentages stay within [0, 100]", func() {
			s.InitializeFromCourse(testCourse())
			s.SetCurrentTime("go-basics", "l1", 5)
			s.MarkLessonComplete("go-basics", "l1")
			So(s.CompletionPercentage("go-basics"), ShouldEqual, 50)

			s.SetCurrentTime("go-basics", "l2", 5)
			s.MarkLessonComplete("go-basics", "l2")
			So(s.CompletionPercentage("go-basics"), ShouldEqual, 100)
		})
	})
}

func TestLastWatchedCourse(t *testing.T) {
	Convey("Given a store with watch history", t, func() {
		s := NewStore()
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		s.now = func() time.Time { return base }
		s.UpdateLessonProgress("older", "l1", LessonUpdate{})

		s.now = func() time.Time { return base.Add(time.Hour) }
		s.UpdateLessonProgress("newer", "l1", LessonUpdate{})

		Convey("The most recent course wins", func() {
			id, ok := s.LastWatchedCourse()
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "newer")
		})

		Convey("Identical timestamps tie-break to the smallest id", func() {
			s.now = func() time.Time { return base.Add(2 * time.Hour) }
			s.UpdateLessonProgress("zeta", "l1", LessonUpdate{})
			s.UpdateLessonProgress("alpha", "l1", LessonUpdate{})

			id, _ := s.LastWatchedCourse()
			So(id, ShouldEqual, "alpha")
		})

		Convey("An empty store reports no course", func() {
			empty := NewStore()
			_, ok := empty.LastWatchedCourse()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestAggregates(t *testing.T) {
	Convey("Given a store with mixed progress", t, func() {
		s := NewStore()

		// finished: 1/1 lessons complete
		s.InitializeFromCourse(testCourse())
		s.SetCurrentTime("go-basics", "l1", 5)
		s.AddWatchedTime("go-basics", "l1", 120)
		s.MarkLessonComplete("go-basics", "l1")
		s.SetCurrentTime("go-basics", "l2", 5)
		s.AddWatchedTime("go-basics", "l2", 300)
		s.MarkLessonComplete("go-basics", "l2")

		// started but unfinished
		c2 := testCourse()
		c2.ID = "go-advanced"
		s.InitializeFromCourse(c2)
		s.SetCurrentTime("go-advanced", "l1", 5)
		s.AddWatchedTime("go-advanced", "l1", 60)
		s.MarkLessonComplete("go-advanced", "l1")

		// never started
		c3 := testCourse()
		c3.ID = "go-untouched"
		s.InitializeFromCourse(c3)

		Convey("TotalWatchTime sums every lesson across every course", func() {
			So(s.TotalWatchTime(), ShouldEqual, 480)
		})

		Convey("CompletedCourseCount requires all lessons complete and a nonzero total", func() {
			So(s.CompletedCourseCount(), ShouldEqual, 1)
		})

		Convey("InProgressCourseCount counts the half-finished one", func() {
			So(s.InProgressCourseCount(), ShouldEqual, 1)
		})
	})
}
