package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/coursa-cli/coursa/constant"
	"github.com/coursa-cli/coursa/course"
	"github.com/coursa-cli/coursa/filesystem"
	"github.com/coursa-cli/coursa/progress"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/exp/slices"
)

func init() {
	filesystem.SetMemMapFs()
}

func writeManifest(t *testing.T, folder, id, title, instructor string) {
	t.Helper()

	manifest := fmt.Sprintf(`{
  "id": %q,
  "title": %q,
  "instructor": %q,
  "sections": [
    {
      "id": "s1",
      "title": "Section",
      "lessons": [
        {"id": "l1", "title": "Lesson 1", "videoPath": "videos/l1.mp4", "duration": 60},
        {"id": "l2", "title": "Lesson 2", "videoPath": "videos/l2.mp4", "duration": 60}
      ]
    }
  ]
}`, id, title, instructor)

	if err := filesystem.API().MkdirAll(folder, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(folder, constant.Manifest)
	if err := filesystem.API().WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFolders(t *testing.T) {
	Convey("Given a library", t, func() {
		lib := New()
		So(lib.folders.Set(nil), ShouldBeNil)

		Convey("When a folder is added", func() {
			So(lib.AddFolder("/courses/go"), ShouldBeNil)

			Convey("It should be in the registry", func() {
				folders, err := lib.Folders()
				So(err, ShouldBeNil)
				So(folders, ShouldResemble, []string{"/courses/go"})
			})

			Convey("Adding it again should be a no-op", func() {
				So(lib.AddFolder("/courses/go"), ShouldBeNil)

				folders, err := lib.Folders()
				So(err, ShouldBeNil)
				So(folders, ShouldHaveLength, 1)
			})

			Convey("When the folder is removed", func() {
				So(lib.RemoveFolder("/courses/go"), ShouldBeNil)

				Convey("The registry should be empty", func() {
					folders, err := lib.Folders()
					So(err, ShouldBeNil)
					So(folders, ShouldBeEmpty)
				})
			})
		})
	})
}

func TestLoading(t *testing.T) {
	Convey("Given folders with one broken manifest among valid ones", t, func() {
		lib := New()
		So(lib.folders.Set(nil), ShouldBeNil)

		writeManifest(t, "/courses/go", "go-basics", "Go Basics", "Rob")
		writeManifest(t, "/courses/sql", "sql-basics", "SQL Basics", "Ada")
		So(filesystem.API().MkdirAll("/courses/broken", 0755), ShouldBeNil)
		So(filesystem.API().WriteFile(
			filepath.Join("/courses/broken", constant.Manifest),
			[]byte(`{"id": "broken"}`),
			0644,
		), ShouldBeNil)

		Convey("LoadOne should propagate the failure", func() {
			_, err := lib.LoadOne("/courses/broken")
			So(err, ShouldNotBeNil)
			var verr *course.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
		})

		Convey("LoadMany should skip the broken folder and keep the rest", func() {
			loaded := lib.LoadMany([]string{"/courses/go", "/courses/broken", "/courses/sql"})

			So(loaded, ShouldHaveLength, 2)
			So(lib.Courses(), ShouldHaveLength, 2)

			_, ok := lib.CourseByID("go-basics")
			So(ok, ShouldBeTrue)
			_, ok = lib.CourseByID("sql-basics")
			So(ok, ShouldBeTrue)
		})

		Convey("Loading the same course twice should keep one copy, the last wins", func() {
			lib.LoadMany([]string{"/courses/go"})

			writeManifest(t, "/courses/go2", "go-basics", "Go Basics, 2nd Edition", "Rob")
			lib.LoadMany([]string{"/courses/go2"})

			So(lib.Courses(), ShouldHaveLength, 1)
			c, ok := lib.CourseByID("go-basics")
			So(ok, ShouldBeTrue)
			So(c.Title, ShouldEqual, "Go Basics, 2nd Edition")
		})
	})
}

func TestRemoveFolderEviction(t *testing.T) {
	Convey("Given a library with a loaded, selected course", t, func() {
		lib := New()
		So(lib.folders.Set(nil), ShouldBeNil)

		writeManifest(t, "/courses/go", "go-basics", "Go Basics", "Rob")
		writeManifest(t, "/courses/sql", "sql-basics", "SQL Basics", "Ada")
		So(lib.AddFolder("/courses/go"), ShouldBeNil)
		So(lib.AddFolder("/courses/sql"), ShouldBeNil)
		lib.LoadMany([]string{"/courses/go", "/courses/sql"})
		lib.Select("go-basics")

		Convey("When its folder is removed", func() {
			So(lib.RemoveFolder("/courses/go"), ShouldBeNil)

			Convey("The course should be evicted and the selection cleared", func() {
				_, ok := lib.CourseByID("go-basics")
				So(ok, ShouldBeFalse)
				So(lib.Selected(), ShouldBeEmpty)
				So(lib.Courses(), ShouldHaveLength, 1)
			})
		})

		Convey("When an unrelated folder is removed", func() {
			So(lib.RemoveFolder("/courses/sql"), ShouldBeNil)

			Convey("The selection should stay", func() {
				So(lib.Selected(), ShouldEqual, "go-basics")
			})
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given a collection with mixed progress", t, func() {
		lib := New()
		So(lib.folders.Set(nil), ShouldBeNil)

		writeManifest(t, "/courses/go", "go-basics", "Go Basics", "Rob")
		writeManifest(t, "/courses/sql", "sql-basics", "SQL for Analysts", "Ada")
		writeManifest(t, "/courses/k8s", "k8s-basics", "Kubernetes Basics", "Ada")
		lib.LoadMany([]string{"/courses/go", "/courses/sql", "/courses/k8s"})

		store := progress.NewStore()
		goCourse, _ := lib.CourseByID("go-basics")
		sqlCourse, _ := lib.CourseByID("sql-basics")
		store.InitializeFromCourse(goCourse)
		store.InitializeFromCourse(sqlCourse)
		store.MarkLessonComplete("go-basics", "l1")
		store.MarkLessonComplete("sql-basics", "l1")
		store.MarkLessonComplete("sql-basics", "l2")

		courses := lib.Courses()

		Convey("A query should match titles case-insensitively", func() {
			found := Filter{Query: "basics"}.Apply(courses, store)
			So(found, ShouldHaveLength, 2)
		})

		Convey("An instructor filter should match exactly", func() {
			found := Filter{Instructor: "Ada"}.Apply(courses, store)
			So(found, ShouldHaveLength, 2)

			So(Filter{Instructor: "ada"}.Apply(courses, store), ShouldBeEmpty)
		})

		Convey("Completion buckets should follow the progress store", func() {
			So(Filter{Completion: CompletionInProgress}.Apply(courses, store), ShouldHaveLength, 1)
			So(Filter{Completion: CompletionCompleted}.Apply(courses, store), ShouldHaveLength, 1)
			So(Filter{Completion: CompletionNotStarted}.Apply(courses, store), ShouldHaveLength, 1)
		})

		Convey("A course without lessons should stay not-started despite stale progress", func() {
			empty := &course.Course{ID: "empty-course", Title: "Empty Course"}
			completed := true
			store.UpdateLessonProgress("empty-course", "ghost", progress.LessonUpdate{Completed: &completed})
			store.Recount("empty-course")

			withEmpty := append(slices.Clone(courses), empty)
			So(Filter{Completion: CompletionNotStarted}.Apply(withEmpty, store), ShouldHaveLength, 2)
			So(Filter{Completion: CompletionCompleted}.Apply(withEmpty, store), ShouldHaveLength, 1)
		})

		Convey("Set fields should compose with AND", func() {
			found := Filter{Query: "basics", Instructor: "Ada", Completion: CompletionNotStarted}.Apply(courses, store)
			So(found, ShouldHaveLength, 1)
			So(found[0].ID, ShouldEqual, "k8s-basics")
		})
	})
}
