package course

import "time"

// Enrich computes the derived fields of a validated course.
//
// TotalLessons is always recomputed from the sections. Duration is summed from
// the lessons only when the manifest omitted it, and CreatedAt is stamped only
// when absent, so enriching an already-enriched course is a no-op.
func (c *Course) Enrich() {
	total := 0
	for _, section := range c.Sections {
		total += len(section.Lessons)
	}
	c.TotalLessons = total

	if c.Duration == 0 {
		var sum float64
		for _, lesson := range c.Lessons() {
			sum += lesson.Duration
		}
		c.Duration = sum
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}
