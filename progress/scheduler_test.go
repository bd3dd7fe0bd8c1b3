package progress

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// recordingSave captures every snapshot written through the scheduler.
type recordingSave struct {
	mu     sync.Mutex
	writes []*Data
}

func (r *recordingSave) save(d *Data) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, d)
	return nil
}

func (r *recordingSave) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func snapshotAt(position float64) *Data {
	d := NewData()
	d.Courses["c"] = &CourseProgress{
		CurrentLesson: "l1",
		CurrentTime:   position,
		Lessons:       map[string]*LessonProgress{},
	}
	return d
}

func TestScheduler(t *testing.T) {
	Convey("Given a debounce scheduler", t, func() {
		rec := &recordingSave{}
		s := NewScheduler(50*time.Millisecond, rec.save)

		Convey("Two rapid schedules collapse into one write with the newest data", func() {
			first := s.Schedule(snapshotAt(10))
			time.Sleep(10 * time.Millisecond)
			second := s.Schedule(snapshotAt(20))

			Convey("The first settles as superseded", func() {
				So(<-first, ShouldEqual, ErrSuperseded)
			})

			Convey("The second write carries the second snapshot", func() {
				So(<-second, ShouldBeNil)
				So(rec.count(), ShouldEqual, 1)
				So(rec.writes[0].Courses["c"].CurrentTime, ShouldEqual, 20)
			})
		})

		Convey("A schedule left alone fires after the idle window", func() {
			done := s.Schedule(snapshotAt(5))
			So(s.State(), ShouldEqual, SchedulerPending)

			So(<-done, ShouldBeNil)
			So(rec.count(), ShouldEqual, 1)
			So(s.State(), ShouldEqual, SchedulerIdle)
		})

		Convey("Stop cancels a pending save without writing", func() {
			done := s.Schedule(snapshotAt(5))
			s.Stop()

			So(<-done, ShouldEqual, ErrSuperseded)
			time.Sleep(80 * time.Millisecond)
			So(rec.count(), ShouldEqual, 0)
		})

		Convey("Flush executes a pending save immediately", func() {
			done := s.Schedule(snapshotAt(5))
			s.Flush()

			So(<-done, ShouldBeNil)
			So(rec.count(), ShouldEqual, 1)
		})
	})
}
