package filter

import (
	"slices"
	"strings"

	"school-admin/models"
)

// Unassigned as a TeacherID selects classes without a teacher.
const Unassigned = "unassigned"

type ClassFilter struct {
	Search    string               `json:"search"`
	Level     models.LanguageLevel `json:"level"`
	Day       string               `json:"day"`
	TimeRange string               `json:"timeRange"`
	Tag       string               `json:"tag"`
	TeacherID string               `json:"teacherId"`
}

func (f ClassFilter) Active() bool {
	return f.ActiveCount() > 0
}

// ActiveCount is the number of criteria set, search included.
func (f ClassFilter) ActiveCount() int {
	n := 0
	for _, v := range []string{f.Search, string(f.Level), f.Day, f.TimeRange, f.Tag, f.TeacherID} {
		if v != "" {
			n++
		}
	}
	return n
}

func (f ClassFilter) Match(c models.Class) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Name), term) &&
			!strings.Contains(strings.ToLower(string(c.Level)), term) {
			return false
		}
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if f.Day != "" && !slices.Contains(c.Days, f.Day) {
		return false
	}
	if f.TimeRange != "" &&
		(c.TimeRange == "" || !strings.Contains(strings.ToLower(c.TimeRange), strings.ToLower(f.TimeRange))) {
		return false
	}
	if f.Tag != "" && !slices.Contains(c.Tags, f.Tag) {
		return false
	}
	switch {
	case f.TeacherID == Unassigned:
		if c.TeacherID != nil && *c.TeacherID != "" {
			return false
		}
	case f.TeacherID != "":
		if c.TeacherID == nil || *c.TeacherID != f.TeacherID {
			return false
		}
	}
	return true
}

// FilterClasses keeps the input order.
func FilterClasses(classes []models.Class, f ClassFilter) []models.Class {
	out := make([]models.Class, 0, len(classes))
	for _, c := range classes {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

type LevelGroup struct {
	Category string                 `json:"category"`
	Levels   []models.LanguageLevel `json:"levels"`
}

// ClassOptions are the distinct values offered by the class filter panel.
type ClassOptions struct {
	Levels     []LevelGroup `json:"levels"`
	Days       []string     `json:"days"`
	TimeRanges []string     `json:"timeRanges"`
	Tags       []string     `json:"tags"`
}

func ClassFilterOptions(classes []models.Class) ClassOptions {
	seenLevels := make(map[models.LanguageLevel]bool)
	var days, timeRanges, tags []string
	for _, c := range classes {
		seenLevels[c.Level] = true
		days = appendUnique(days, c.Days...)
		if c.TimeRange != "" {
			timeRanges = appendUnique(timeRanges, c.TimeRange)
		}
		tags = appendUnique(tags, c.Tags...)
	}

	var groups []LevelGroup
	for _, category := range []string{models.CategoryPrimary, models.CategoryAdult} {
		group := LevelGroup{Category: category, Levels: []models.LanguageLevel{}}
		for _, o := range models.LevelOptions {
			if o.Category == category && seenLevels[o.Value] {
				group.Levels = append(group.Levels, o.Value)
			}
		}
		groups = append(groups, group)
	}

	return ClassOptions{
		Levels:     groups,
		Days:       nonNil(days),
		TimeRanges: nonNil(timeRanges),
		Tags:       nonNil(tags),
	}
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
