package cmd

import (
	"testing"

	"github.com/coursa-cli/coursa/progress"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordTick(t *testing.T) {
	Convey("Given a playback session feeding the store", t, func() {
		store := progress.NewStore()

		Convey("Playing ticks should accumulate watched time and position", func() {
			So(recordTick(store, "go-basics", "l1", false, 10, 100, 90), ShouldBeTrue)
			So(recordTick(store, "go-basics", "l1", false, 11, 100, 90), ShouldBeTrue)

			lp, ok := store.LessonProgress("go-basics", "l1")
			So(ok, ShouldBeTrue)
			So(lp.WatchedDuration, ShouldEqual, 2)
			So(lp.LastPosition, ShouldEqual, 11)
			So(lp.Completed, ShouldBeFalse)
		})

		Convey("Paused ticks should change nothing", func() {
			recordTick(store, "go-basics", "l1", false, 10, 100, 90)
			before, _ := store.LessonProgress("go-basics", "l1")

			for i := 0; i < 600; i++ {
				So(recordTick(store, "go-basics", "l1", true, 10, 100, 90), ShouldBeFalse)
			}

			after, _ := store.LessonProgress("go-basics", "l1")
			So(after.WatchedDuration, ShouldEqual, before.WatchedDuration)
			So(store.TotalWatchTime(), ShouldEqual, before.WatchedDuration)
		})

		Convey("Crossing the completion threshold should mark the lesson", func() {
			So(recordTick(store, "go-basics", "l1", false, 95, 100, 90), ShouldBeTrue)

			lp, _ := store.LessonProgress("go-basics", "l1")
			So(lp.Completed, ShouldBeTrue)
		})

		Convey("An unknown media duration should never complete the lesson", func() {
			recordTick(store, "go-basics", "l1", false, 95, 0, 90)

			lp, _ := store.LessonProgress("go-basics", "l1")
			So(lp.Completed, ShouldBeFalse)
		})
	})
}
