package course

import (
	"path/filepath"
	"testing"

	"github.com/coursa-cli/coursa/constant"
	"github.com/coursa-cli/coursa/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

const validManifest = `{
	"id": "go-basics",
	"title": "Go Basics",
	"instructor": "R. Pike",
	"sections": [
		{
			"id": "s1",
			"title": "Getting Started",
			"lessons": [
				{"id": "l1", "title": "Hello", "videoPath": "videos/01.mp4", "duration": 120},
				{"id": "l2", "title": "Types", "videoPath": "videos/02.mp4", "duration": 300}
			]
		},
		{
			"id": "s2",
			"title": "Concurrency",
			"lessons": [
				{"id": "l3", "title": "Goroutines", "videoPath": "videos/03.mp4", "duration": 480}
			]
		}
	]
}`

func TestParse(t *testing.T) {
	Convey("Given a valid manifest", t, func() {
		c, err := Parse([]byte(validManifest))

		Convey("It parses without error", func() {
			So(err, ShouldBeNil)
			So(c.ID, ShouldEqual, "go-basics")
			So(c.Sections, ShouldHaveLength, 2)
			So(c.Sections[0].Lessons, ShouldHaveLength, 2)
		})
	})

	Convey("Given a manifest with multiple violations", t, func() {
		manifest := `{
			"sections": [
				{"id": "s1", "title": "One", "lessons": [
					{"title": "No id or video"}
				]}
			]
		}`
		_, err := Parse([]byte(manifest))

		Convey("All violations are reported together", func() {
			So(err, ShouldNotBeNil)

			var verr *ValidationError
			So(err, ShouldHaveSameTypeAs, verr)
			verr = err.(*ValidationError)

			So(verr.Issues, ShouldContain, "missing course id")
			So(verr.Issues, ShouldContain, "missing course title")
			So(verr.Issues, ShouldContain, `section "One", lesson 1: missing id`)
			So(verr.Issues, ShouldContain, `section "One", lesson 1: missing videoPath`)
			So(verr.Issues, ShouldContain, `section "One", lesson 1: missing duration`)
		})
	})

	Convey("Given a manifest with non-array sections", t, func() {
		_, err := Parse([]byte(`{"id": "x", "title": "X", "sections": "nope"}`))

		Convey("The shape violation is itemized", func() {
			verr := err.(*ValidationError)
			So(verr.Issues, ShouldContain, "sections must be an array")
		})
	})

	Convey("Given a manifest with empty sections", t, func() {
		_, err := Parse([]byte(`{"id": "x", "title": "X", "sections": []}`))

		Convey("The course is rejected as non-navigable", func() {
			verr := err.(*ValidationError)
			So(verr.Issues, ShouldContain, "sections must not be empty")
		})
	})

	Convey("Given malformed JSON", t, func() {
		_, err := Parse([]byte(`{not json`))

		Convey("A parse error is returned", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEnrich(t *testing.T) {
	Convey("Given a parsed course", t, func() {
		c, err := Parse([]byte(validManifest))
		So(err, ShouldBeNil)

		Convey("Enrichment computes derived fields", func() {
			c.Enrich()
			So(c.TotalLessons, ShouldEqual, 3)
			So(c.Duration, ShouldEqual, 900)
			So(c.CreatedAt.IsZero(), ShouldBeFalse)
		})

		Convey("Enrichment is idempotent", func() {
			c.Enrich()
			duration, total, created := c.Duration, c.TotalLessons, c.CreatedAt

			c.Enrich()
			So(c.Duration, ShouldEqual, duration)
			So(c.TotalLessons, ShouldEqual, total)
			So(c.CreatedAt, ShouldEqual, created)
		})

		Convey("A manifest-declared duration is preserved", func() {
			c.Duration = 1234
			c.Enrich()
			So(c.Duration, ShouldEqual, 1234)
		})

		Convey("TotalLessons matches the sum over sections", func() {
			c.Enrich()
			sum := 0
			for _, section := range c.Sections {
				sum += len(section.Lessons)
			}
			So(c.TotalLessons, ShouldEqual, sum)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a course folder on disk", t, func() {
		folder := "/courses/go-basics"
		fs := filesystem.API()
		So(fs.MkdirAll(folder, 0755), ShouldBeNil)
		So(fs.WriteFile(filepath.Join(folder, constant.Manifest), []byte(validManifest), 0644), ShouldBeNil)

		Convey("Load returns an enriched course bound to the folder", func() {
			c, err := Load(folder)
			So(err, ShouldBeNil)
			So(c.FolderPath, ShouldEqual, folder)
			So(c.TotalLessons, ShouldEqual, 3)
		})

		Convey("Lesson paths resolve against the folder", func() {
			c, _ := Load(folder)
			lesson, ok := c.LessonByID("l1")
			So(ok, ShouldBeTrue)
			So(c.VideoPath(lesson), ShouldEqual, filepath.Join(folder, "videos/01.mp4"))
		})
	})

	Convey("Given a folder without a manifest", t, func() {
		_, err := Load("/courses/empty")

		Convey("The error is ErrManifestNotFound", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "course manifest not found")
		})
	})
}
