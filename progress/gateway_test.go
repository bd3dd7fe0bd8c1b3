package progress

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/coursa-cli/coursa/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

// flakyFs fails the first n file creations, then behaves normally.
type flakyFs struct {
	afero.Fs
	failures int
}

func (f *flakyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.failures > 0 && flag&os.O_CREATE != 0 {
		f.failures--
		return nil, errors.New("disk unavailable")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestAttemptDelay(t *testing.T) {
	Convey("attemptDelay follows the fixed backoff table", t, func() {
		So(attemptDelay(1), ShouldEqual, 1*time.Second)
		So(attemptDelay(2), ShouldEqual, 2*time.Second)
		So(attemptDelay(3), ShouldEqual, 4*time.Second)

		Convey("Out-of-range attempts reuse the boundary entries", func() {
			So(attemptDelay(0), ShouldEqual, 1*time.Second)
			So(attemptDelay(9), ShouldEqual, 4*time.Second)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Gateway.Load", t, func() {
		filesystem.SetMemMapFs()
		g := NewGateway("/state/progress.json")

		Convey("A missing file yields an empty document", func() {
			data := g.Load()
			So(data, ShouldNotBeNil)
			So(data.Courses, ShouldBeEmpty)
		})

		Convey("A corrupt file degrades to an empty document", func() {
			So(filesystem.API().MkdirAll("/state", 0755), ShouldBeNil)
			So(filesystem.API().WriteFile("/state/progress.json", []byte("{garbage"), 0644), ShouldBeNil)

			data := g.Load()
			So(data.Courses, ShouldBeEmpty)
		})

		Convey("A saved document round-trips", func() {
			d := NewData()
			d.Courses["c"] = &CourseProgress{
				CurrentLesson: "l1",
				CurrentTime:   30,
				Lessons: map[string]*LessonProgress{
					"l1": {WatchedDuration: 45, LastPosition: 30},
				},
			}

			g.sleep = func(time.Duration) {}
			So(g.Save(d), ShouldBeNil)

			loaded := g.Load()
			So(loaded.Courses["c"].Lessons["l1"].WatchedDuration, ShouldEqual, 45)
		})
	})
}

func TestSaveRetries(t *testing.T) {
	Convey("Gateway.Save", t, func() {
		mem := afero.NewMemMapFs()

		Convey("Two transient failures then success", func() {
			flaky := &flakyFs{Fs: mem, failures: 2}
			filesystem.Set(flaky)

			var delays []time.Duration
			g := NewGateway("/progress.json")
			g.sleep = func(d time.Duration) { delays = append(delays, d) }

			err := g.Save(NewData())

			Convey("The save eventually succeeds", func() {
				So(err, ShouldBeNil)
			})
			Convey("The documented delays were respected", func() {
				So(delays, ShouldResemble, []time.Duration{1 * time.Second, 2 * time.Second})
			})
		})

		Convey("Exhausted retries surface the attempt count and last error", func() {
			flaky := &flakyFs{Fs: mem, failures: 99}
			filesystem.Set(flaky)

			g := NewGateway("/progress.json")
			g.sleep = func(time.Duration) {}

			err := g.Save(NewData())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "after 3 attempts")
			So(err.Error(), ShouldContainSubstring, "disk unavailable")
		})

		filesystem.SetMemMapFs()
	})
}

func TestExportImport(t *testing.T) {
	Convey("Given persisted progress", t, func() {
		filesystem.SetMemMapFs()
		g := NewGateway("/progress.json")
		g.sleep = func(time.Duration) {}

		existing := NewData()
		existing.Courses["c"] = &CourseProgress{
			Lessons: map[string]*LessonProgress{
				"l1": {WatchedDuration: 500},
			},
		}
		So(g.Save(existing), ShouldBeNil)

		Convey("Export writes a readable document", func() {
			So(g.Export(existing, "/backup.json"), ShouldBeNil)

			raw, err := filesystem.API().ReadFile("/backup.json")
			So(err, ShouldBeNil)
			imported, err := Validate(raw)
			So(err, ShouldBeNil)
			So(imported.Courses["c"].Lessons["l1"].WatchedDuration, ShouldEqual, 500)
		})

		Convey("Import merges on top of the persisted state", func() {
			incoming := `{"courses": {"c": {"lessons": {"l1": {"watchedDuration": 100, "completed": true}}}}}`
			So(filesystem.API().WriteFile("/incoming.json", []byte(incoming), 0644), ShouldBeNil)

			merged, err := g.Import("/incoming.json")
			So(err, ShouldBeNil)

			lesson := merged.Courses["c"].Lessons["l1"]
			So(lesson.WatchedDuration, ShouldEqual, 500) // max wins
			So(lesson.Completed, ShouldBeTrue)           // OR wins

			Convey("And the merge was persisted", func() {
				So(g.Load().Courses["c"].Lessons["l1"].Completed, ShouldBeTrue)
			})
		})

		Convey("Import rejects an invalid payload wholesale", func() {
			bad := `{"courses": {"c": {"lessons": {"l1": {"watchedDuration": "x"}}}}}`
			So(filesystem.API().WriteFile("/bad.json", []byte(bad), 0644), ShouldBeNil)

			_, err := g.Import("/bad.json")
			So(err, ShouldNotBeNil)

			Convey("And the persisted state is untouched", func() {
				So(g.Load().Courses["c"].Lessons["l1"].WatchedDuration, ShouldEqual, 500)
			})
		})
	})
}
