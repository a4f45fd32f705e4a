package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"school-admin/models"
)

func strPtr(s string) *string { return &s }

func sampleClasses() []models.Class {
	return []models.Class{
		{ID: "c1", Name: "Sabah Grubu", Level: models.LevelB11, Days: datatypes.JSONSlice[string]{"Pazartesi", "Çarşamba"}, TimeRange: "10:00 - 12:00", Tags: datatypes.JSONSlice[string]{"Yetişkin"}, TeacherID: strPtr("t1")},
		{ID: "c2", Name: "Çocuklar", Level: models.Level5, Days: datatypes.JSONSlice[string]{"Cumartesi"}, Tags: datatypes.JSONSlice[string]{"İlköğretim"}},
		{ID: "c3", Name: "Akşam", Level: models.LevelB11, Days: datatypes.JSONSlice[string]{"Salı"}, TimeRange: "19:00 - 21:00", TeacherID: strPtr("")},
	}
}

func ids(classes []models.Class) []string {
	out := []string{}
	for _, c := range classes {
		out = append(out, c.ID)
	}
	return out
}

func TestFilterClasses(t *testing.T) {
	tests := []struct {
		name   string
		filter ClassFilter
		want   []string
	}{
		{"no filter", ClassFilter{}, []string{"c1", "c2", "c3"}},
		{"search by name", ClassFilter{Search: "sabah"}, []string{"c1"}},
		{"search by level", ClassFilter{Search: "b1"}, []string{"c1", "c3"}},
		{"level", ClassFilter{Level: models.Level5}, []string{"c2"}},
		{"day", ClassFilter{Day: "Salı"}, []string{"c3"}},
		{"time range substring", ClassFilter{TimeRange: "19:00"}, []string{"c3"}},
		{"tag", ClassFilter{Tag: "Yetişkin"}, []string{"c1"}},
		{"teacher", ClassFilter{TeacherID: "t1"}, []string{"c1"}},
		{"unassigned", ClassFilter{TeacherID: Unassigned}, []string{"c2", "c3"}},
		{"combined", ClassFilter{Level: models.LevelB11, Day: "Pazartesi"}, []string{"c1"}},
		{"no match", ClassFilter{Day: "Pazar"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterClasses(sampleClasses(), tt.filter)))
		})
	}
}

func TestActiveCount(t *testing.T) {
	assert.False(t, ClassFilter{}.Active())
	f := ClassFilter{Search: "a", Level: models.LevelA11, TeacherID: Unassigned}
	assert.True(t, f.Active())
	assert.Equal(t, 3, f.ActiveCount())
}

func TestClassFilterOptions(t *testing.T) {
	opts := ClassFilterOptions(sampleClasses())

	assert.Equal(t, []string{"Pazartesi", "Çarşamba", "Cumartesi", "Salı"}, opts.Days)
	assert.Equal(t, []string{"10:00 - 12:00", "19:00 - 21:00"}, opts.TimeRanges)
	assert.Equal(t, []string{"Yetişkin", "İlköğretim"}, opts.Tags)
	assert.Equal(t, []LevelGroup{
		{Category: models.CategoryPrimary, Levels: []models.LanguageLevel{models.Level5}},
		{Category: models.CategoryAdult, Levels: []models.LanguageLevel{models.LevelB11}},
	}, opts.Levels)

	empty := ClassFilterOptions(nil)
	assert.Equal(t, []string{}, empty.Days)
	assert.Equal(t, []models.LanguageLevel{}, empty.Levels[0].Levels)
}

func TestTeacherFilters(t *testing.T) {
	teachers := []models.Teacher{
		{ID: "t1", Name: "Ayşe Yılmaz", IsActive: true},
		{ID: "t2", Name: "Burak", IsActive: false},
		{ID: "t3", Name: "Ayten", IsActive: false},
	}

	assert.Len(t, FilterTeachers(teachers, "", false), 3)
	assert.Len(t, FilterTeachers(teachers, "AY", false), 2)
	got := FilterTeachers(teachers, "ay", true)
	assert.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
	assert.Len(t, ActiveTeachers(teachers), 1)
	assert.Equal(t, models.TeacherStats{Total: 3, Active: 1, Inactive: 2}, TeacherStats(teachers))
	assert.Equal(t, models.TeacherStats{}, TeacherStats(nil))
}

func TestStudentFilters(t *testing.T) {
	students := []models.Student{
		{ID: "s1", Name: "Ali", Surname: "Kaya", Phone: "0555 111 22 33", ClassID: strPtr("c1")},
		{ID: "s2", Name: "Ece", Surname: "Demir", Phone: "0544 000 00 00"},
		{ID: "s3", Name: "Can", Surname: "Kayalı", Phone: "0533", ClassID: strPtr("")},
	}

	search := func(term string) []string {
		out := []string{}
		for _, s := range SearchStudents(students, term) {
			out = append(out, s.ID)
		}
		return out
	}
	assert.Equal(t, []string{"s1", "s3"}, search("kaya"))
	assert.Equal(t, []string{"s2"}, search("ECE"))
	assert.Equal(t, []string{"s1"}, search("0555"))
	assert.Equal(t, []string{}, search("xyz"))

	unassigned := UnassignedStudents(students)
	assert.Len(t, unassigned, 2)
	assert.Equal(t, "s2", unassigned[0].ID)

	grouped := StudentsByClass(students)
	assert.Len(t, grouped, 1)
	assert.Len(t, grouped["c1"], 1)
}
