package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"school-admin/database"
	"school-admin/models"
)

const dateLayout = "2006-01-02"

type ClassService struct {
	backend *database.Backend
}

func NewClassService(backend *database.Backend) *ClassService {
	return &ClassService{backend: backend}
}

type classStudentRow struct {
	ID      string `db:"id"`
	ClassID string `db:"class_id"`
}

// GetAllClasses returns every class, newest first, with teacher names and student ids.
func (s *ClassService) GetAllClasses(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := s.backend.WithContext(ctx).
		Preload("Teacher").
		Order("created_at DESC").
		Find(&classes).Error; err != nil {
		log.Printf("❌ Error fetching classes: %v", err)
		return nil, fmt.Errorf("fetch classes: %w", database.TranslateError(err))
	}

	var rows []classStudentRow
	if err := s.backend.X.SelectContext(ctx, &rows,
		`SELECT id, class_id FROM students WHERE class_id IS NOT NULL ORDER BY created_at`); err != nil {
		log.Printf("❌ Error fetching class members: %v", err)
		return nil, fmt.Errorf("fetch class members: %w", err)
	}

	members := make(map[string][]string)
	for _, r := range rows {
		members[r.ClassID] = append(members[r.ClassID], r.ID)
	}
	for i := range classes {
		if ids, ok := members[classes[i].ID]; ok {
			classes[i].StudentIDs = ids
		}
	}
	return classes, nil
}

func (s *ClassService) GetClass(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	if err := s.backend.WithContext(ctx).Preload("Teacher").First(&class, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, ErrClassNotFound)
	}

	ids, err := s.GetStudentsInClass(ctx, id)
	if err != nil {
		return nil, err
	}
	class.StudentIDs = ids
	return &class, nil
}

// GetClassDetail is a class together with its student records.
func (s *ClassService) GetClassDetail(ctx context.Context, id string) (*models.ClassDetail, error) {
	class, err := s.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}

	var students []models.Student
	if err := s.backend.WithContext(ctx).
		Preload("PriceQuotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("class_id = ?", id).
		Order("name, surname").
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("fetch class students: %w", database.TranslateError(err))
	}

	return &models.ClassDetail{Class: *class, Students: students}, nil
}

func (s *ClassService) AddClass(ctx context.Context, input models.ClassInput) (*models.Class, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	values, err := s.classColumns(ctx, input)
	if err != nil {
		return nil, err
	}

	class := models.Class{
		UserID:    session.UserID,
		Name:      values.name,
		Level:     input.Level,
		StartDate: values.startDate,
		EndDate:   values.endDate,
		Days:      values.days,
		TimeRange: values.timeRange,
		Tags:      values.tags,
		TeacherID: values.teacherID,
	}

	if err := s.backend.WithContext(ctx).Create(&class).Error; err != nil {
		log.Printf("❌ Error adding class: %v", err)
		return nil, fmt.Errorf("add class: %w", database.TranslateError(err))
	}

	log.Printf("✅ Class created: %s (%s)", class.Name, class.ID)
	return s.GetClass(ctx, class.ID)
}

func (s *ClassService) UpdateClass(ctx context.Context, id string, input models.ClassInput) (*models.Class, error) {
	if _, err := requireSession(ctx); err != nil {
		return nil, err
	}

	values, err := s.classColumns(ctx, input)
	if err != nil {
		return nil, err
	}

	result := s.backend.WithContext(ctx).Model(&models.Class{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":       values.name,
		"level":      input.Level,
		"start_date": values.startDate,
		"end_date":   values.endDate,
		"days":       values.days,
		"time_range": values.timeRange,
		"tags":       values.tags,
		"teacher_id": values.teacherID,
	})
	if result.Error != nil {
		log.Printf("❌ Error updating class %s: %v", id, result.Error)
		return nil, fmt.Errorf("update class: %w", database.TranslateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return nil, ErrClassNotFound
	}

	log.Printf("✅ Class %s updated", id)
	return s.GetClass(ctx, id)
}

// DeleteClass removes the class; its students become classless.
func (s *ClassService) DeleteClass(ctx context.Context, id string) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	var existing models.Class
	if err := s.backend.WithContext(ctx).Select("id", "name").First(&existing, "id = ?", id).Error; err != nil {
		return notFoundAs(err, ErrClassNotFound)
	}

	err := s.backend.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).Where("class_id = ?", id).Update("class_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Class{}, "id = ?", id).Error
	})
	if err != nil {
		log.Printf("❌ Error deleting class %s: %v", id, err)
		return fmt.Errorf("delete class: %w", database.TranslateError(err))
	}

	log.Printf("🗑️ Class deleted: %s (%s)", existing.Name, id)
	return nil
}

// AssignStudentToClass sets the student's class; a nil classID removes it from any class.
func (s *ClassService) AssignStudentToClass(ctx context.Context, studentID string, classID *string) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	var student models.Student
	if err := s.backend.WithContext(ctx).Select("id").First(&student, "id = ?", studentID).Error; err != nil {
		return notFoundAs(err, ErrStudentNotFound)
	}

	if classID != nil && *classID == "" {
		classID = nil
	}
	if classID != nil {
		var class models.Class
		if err := s.backend.WithContext(ctx).Select("id").First(&class, "id = ?", *classID).Error; err != nil {
			return notFoundAs(err, ErrClassNotFound)
		}
	}

	if err := s.backend.WithContext(ctx).Model(&models.Student{}).
		Where("id = ?", studentID).
		Update("class_id", classID).Error; err != nil {
		log.Printf("❌ Error assigning student to class: %v", err)
		return fmt.Errorf("assign student: %w", database.TranslateError(err))
	}

	if classID == nil {
		log.Printf("🔄 Student %s removed from its class", studentID)
	} else {
		log.Printf("🔄 Student %s assigned to class %s", studentID, *classID)
	}
	return nil
}

// GetStudentsInClass returns the ids of the students in a class.
func (s *ClassService) GetStudentsInClass(ctx context.Context, classID string) ([]string, error) {
	ids := []string{}
	query := s.backend.X.Rebind(`SELECT id FROM students WHERE class_id = ? ORDER BY created_at`)
	if err := s.backend.X.SelectContext(ctx, &ids, query, classID); err != nil {
		log.Printf("❌ Error fetching students in class: %v", err)
		return nil, fmt.Errorf("fetch students in class: %w", err)
	}
	return ids, nil
}

type classValues struct {
	name      string
	startDate *time.Time
	endDate   *time.Time
	days      datatypes.JSONSlice[string]
	timeRange string
	tags      datatypes.JSONSlice[string]
	teacherID *string
}

// classColumns maps form input onto column values.
func (s *ClassService) classColumns(ctx context.Context, input models.ClassInput) (*classValues, error) {
	v := &classValues{
		name:      strings.TrimSpace(input.Name),
		timeRange: strings.TrimSpace(input.TimeRange),
		days:      datatypes.JSONSlice[string]{},
		tags:      datatypes.JSONSlice[string]{},
	}
	if v.name == "" {
		return nil, validationError("class name is required")
	}
	if !input.Level.Valid() {
		return nil, validationError("unknown level %q", input.Level)
	}

	var err error
	if v.startDate, err = parseOptionalDate(input.StartDate); err != nil {
		return nil, validationError("invalid start date %q", input.StartDate)
	}
	if v.endDate, err = parseOptionalDate(input.EndDate); err != nil {
		return nil, validationError("invalid end date %q", input.EndDate)
	}
	if v.startDate != nil && v.endDate != nil && v.endDate.Before(*v.startDate) {
		return nil, validationError("end date is before start date")
	}

	if input.Days != nil {
		v.days = append(v.days, input.Days...)
	}
	if input.Tags != nil {
		v.tags = append(v.tags, input.Tags...)
	}

	if input.TeacherID != nil && strings.TrimSpace(*input.TeacherID) != "" {
		teacherID := strings.TrimSpace(*input.TeacherID)
		var teacher models.Teacher
		if err := s.backend.WithContext(ctx).Select("id").First(&teacher, "id = ?", teacherID).Error; err != nil {
			if errors.Is(database.TranslateError(err), database.ErrNotFound) {
				return nil, ErrTeacherNotFound
			}
			return nil, err
		}
		v.teacherID = &teacherID
	}
	return v, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	// Accept full timestamps too; only the date part is kept.
	if i := strings.IndexByte(value, 'T'); i > 0 {
		value = value[:i]
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
