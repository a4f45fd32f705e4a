package filter

import (
	"strings"

	"school-admin/models"
)

func FilterTeachers(teachers []models.Teacher, search string, activeOnly bool) []models.Teacher {
	term := strings.ToLower(search)
	out := make([]models.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if !strings.Contains(strings.ToLower(t.Name), term) {
			continue
		}
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	return out
}

func ActiveTeachers(teachers []models.Teacher) []models.Teacher {
	return FilterTeachers(teachers, "", true)
}

func TeacherStats(teachers []models.Teacher) models.TeacherStats {
	stats := models.TeacherStats{Total: len(teachers)}
	for _, t := range teachers {
		if t.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}
	return stats
}

// SearchStudents matches name or surname case-insensitively, or phone as typed.
func SearchStudents(students []models.Student, term string) []models.Student {
	lower := strings.ToLower(term)
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), lower) ||
			strings.Contains(strings.ToLower(s.Surname), lower) ||
			strings.Contains(s.Phone, term) {
			out = append(out, s)
		}
	}
	return out
}

func UnassignedStudents(students []models.Student) []models.Student {
	out := make([]models.Student, 0)
	for _, s := range students {
		if s.ClassID == nil || *s.ClassID == "" {
			out = append(out, s)
		}
	}
	return out
}

// StudentsByClass groups students under their class id.
func StudentsByClass(students []models.Student) map[string][]models.Student {
	out := make(map[string][]models.Student)
	for _, s := range students {
		if s.ClassID != nil && *s.ClassID != "" {
			out[*s.ClassID] = append(out[*s.ClassID], s)
		}
	}
	return out
}
