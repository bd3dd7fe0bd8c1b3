package course

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ValidationError reports every structural violation found in a manifest at
// once, so a user can fix the whole file in a single pass instead of
// replaying load-fix cycles per field.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid manifest: %s", strings.Join(e.Issues, "; "))
}

// rawCourse mirrors Course with permissive field types so structural problems
// surface as itemized issues instead of a single unmarshal failure.
type rawCourse struct {
	ID          *string         `json:"id"`
	Title       *string         `json:"title"`
	Description string          `json:"description"`
	Instructor  string          `json:"instructor"`
	Thumbnail   string          `json:"thumbnail"`
	Tags        []string        `json:"tags"`
	Sections    json.RawMessage `json:"sections"`
	Duration    float64         `json:"duration"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type rawSection struct {
	ID      *string     `json:"id"`
	Title   *string     `json:"title"`
	Order   int         `json:"order"`
	Lessons []rawLesson `json:"lessons"`
}

type rawLesson struct {
	ID          *string    `json:"id"`
	Title       *string    `json:"title"`
	VideoPath   *string    `json:"videoPath"`
	Duration    *float64   `json:"duration"`
	Notes       string     `json:"notes"`
	Description string     `json:"description"`
	Resources   []Resource `json:"resources"`
	Links       []Link     `json:"links"`
}

// Parse validates a raw manifest document and produces a typed Course.
// Validation collects all violations rather than failing on the first one;
// on any violation the returned error is a *ValidationError listing each.
func Parse(data []byte) (*Course, error) {
	var raw rawCourse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	var issues []string
	missing := func(what string) {
		issues = append(issues, fmt.Sprintf("missing %s", what))
	}

	if raw.ID == nil || *raw.ID == "" {
		missing("course id")
	}
	if raw.Title == nil || *raw.Title == "" {
		missing("course title")
	}

	var sections []rawSection
	switch {
	case len(raw.Sections) == 0 || string(raw.Sections) == "null":
		missing("sections")
	case json.Unmarshal(raw.Sections, &sections) != nil:
		issues = append(issues, "sections must be an array")
	case len(sections) == 0:
		issues = append(issues, "sections must not be empty")
	}

	for si, section := range sections {
		label := fmt.Sprintf("section %d", si+1)
		if section.Title != nil && *section.Title != "" {
			label = fmt.Sprintf("section %q", *section.Title)
		}

		if section.ID == nil || *section.ID == "" {
			issues = append(issues, fmt.Sprintf("%s: missing id", label))
		}
		if section.Title == nil || *section.Title == "" {
			issues = append(issues, fmt.Sprintf("%s: missing title", label))
		}

		for li, lesson := range section.Lessons {
			prefix := fmt.Sprintf("%s, lesson %d", label, li+1)
			if lesson.ID == nil || *lesson.ID == "" {
				issues = append(issues, fmt.Sprintf("%s: missing id", prefix))
			}
			if lesson.Title == nil || *lesson.Title == "" {
				issues = append(issues, fmt.Sprintf("%s: missing title", prefix))
			}
			if lesson.VideoPath == nil || *lesson.VideoPath == "" {
				issues = append(issues, fmt.Sprintf("%s: missing videoPath", prefix))
			}
			if lesson.Duration == nil {
				issues = append(issues, fmt.Sprintf("%s: missing duration", prefix))
			}
		}
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	return buildCourse(&raw, sections), nil
}

func buildCourse(raw *rawCourse, sections []rawSection) *Course {
	c := &Course{
		ID:          *raw.ID,
		Title:       *raw.Title,
		Description: raw.Description,
		Instructor:  raw.Instructor,
		Thumbnail:   raw.Thumbnail,
		Tags:        raw.Tags,
		Duration:    raw.Duration,
		CreatedAt:   raw.CreatedAt,
	}

	for _, rs := range sections {
		section := Section{
			ID:    *rs.ID,
			Title: *rs.Title,
			Order: rs.Order,
		}
		for _, rl := range rs.Lessons {
			section.Lessons = append(section.Lessons, Lesson{
				ID:          *rl.ID,
				Title:       *rl.Title,
				VideoPath:   *rl.VideoPath,
				Duration:    *rl.Duration,
				Notes:       rl.Notes,
				Description: rl.Description,
				Resources:   rl.Resources,
				Links:       rl.Links,
			})
		}
		c.Sections = append(c.Sections, section)
	}

	return c
}
