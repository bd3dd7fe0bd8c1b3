package progress

import (
	"encoding/json"
	"fmt"
)

// Validate structurally verifies a raw progress payload and decodes it.
//
// Unlike manifest validation, which itemizes every problem, progress
// validation is binary: any structural violation anywhere rejects the whole
// payload, because a partially trusted progress file would silently corrupt
// watch history.
func Validate(raw []byte) (*Data, error) {
	var top struct {
		Courses json.RawMessage `json:"courses"`
	}
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("progress data is not valid JSON: %w", err)
	}
	if len(top.Courses) == 0 || string(top.Courses) == "null" {
		return nil, fmt.Errorf("progress data has no courses map")
	}

	var courses map[string]map[string]any
	if err := json.Unmarshal(top.Courses, &courses); err != nil {
		return nil, fmt.Errorf("courses must be a map of course records: %w", err)
	}

	for courseID, fields := range courses {
		if err := validateCourseRecord(fields); err != nil {
			return nil, fmt.Errorf("course %q: %w", courseID, err)
		}
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode progress data: %w", err)
	}
	if data.Courses == nil {
		data.Courses = make(map[string]*CourseProgress)
	}
	return &data, nil
}

func validateCourseRecord(fields map[string]any) error {
	if err := numericIfPresent(fields, "totalLessons"); err != nil {
		return err
	}
	if err := numericIfPresent(fields, "completedLessons"); err != nil {
		return err
	}

	rawLessons, ok := fields["lessons"]
	if !ok || rawLessons == nil {
		return nil
	}
	lessons, ok := rawLessons.(map[string]any)
	if !ok {
		return fmt.Errorf("lessons must be a map of lesson records")
	}

	for lessonID, rawLesson := range lessons {
		lesson, ok := rawLesson.(map[string]any)
		if !ok {
			return fmt.Errorf("lesson %q must be a record", lessonID)
		}
		if completed, ok := lesson["completed"]; ok {
			if _, isBool := completed.(bool); !isBool {
				return fmt.Errorf("lesson %q: completed must be a boolean", lessonID)
			}
		}
		if err := numericIfPresent(lesson, "watchedDuration"); err != nil {
			return fmt.Errorf("lesson %q: %w", lessonID, err)
		}
		if err := numericIfPresent(lesson, "lastPosition"); err != nil {
			return fmt.Errorf("lesson %q: %w", lessonID, err)
		}
	}

	return nil
}

func numericIfPresent(fields map[string]any, name string) error {
	value, ok := fields[name]
	if !ok || value == nil {
		return nil
	}
	if _, isNumber := value.(float64); !isNumber {
		return fmt.Errorf("%s must be numeric", name)
	}
	return nil
}
