// Package course defines the domain model for locally discovered courses and their manifests.
package course

import (
	"time"
)

// Course represents a single course described by a course.json manifest.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Instructor  string   `json:"instructor,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	Sections []Section `json:"sections"`

	// Duration is the total length of the course in seconds. Computed from the
	// lessons during enrichment when the manifest omits it.
	Duration float64 `json:"duration,omitempty"`

	// TotalLessons is always recomputed during enrichment.
	TotalLessons int `json:"totalLessons,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`

	// FolderPath is the absolute location of the course folder on disk.
	// Runtime-only; never written back to the manifest.
	FolderPath string `json:"-"`
}

// Section groups an ordered list of lessons. Playback sequence follows slice
// order; the optional Order field is carried through but never used as a sort key.
type Section struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Order   int      `json:"order,omitempty"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson is a single playable unit within a section.
type Lesson struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	VideoPath   string  `json:"videoPath"`
	Duration    float64 `json:"duration"`
	Notes       string  `json:"notes,omitempty"`
	Description string  `json:"description,omitempty"`

	Resources []Resource `json:"resources,omitempty"`
	Links     []Link     `json:"links,omitempty"`
}

// Resource is a supplementary file shipped with a lesson, relative to the course folder.
type Resource struct {
	Title string `json:"title"`
	Path  string `json:"path"`
	Type  string `json:"type,omitempty"`
}

// Link is an external reference attached to a lesson.
type Link struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

func (c *Course) String() string {
	return c.Title
}

// Lessons returns every lesson of the course in playback order.
func (c *Course) Lessons() []Lesson {
	var lessons []Lesson
	for _, section := range c.Sections {
		lessons = append(lessons, section.Lessons...)
	}
	return lessons
}

// LessonByID locates a lesson anywhere in the course.
func (c *Course) LessonByID(id string) (Lesson, bool) {
	for _, section := range c.Sections {
		for _, lesson := range section.Lessons {
			if lesson.ID == id {
				return lesson, true
			}
		}
	}
	return Lesson{}, false
}

// FirstLesson returns the opening lesson of the course in playback order.
func (c *Course) FirstLesson() (Lesson, bool) {
	for _, section := range c.Sections {
		if len(section.Lessons) > 0 {
			return section.Lessons[0], true
		}
	}
	return Lesson{}, false
}
