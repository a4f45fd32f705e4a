package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"school-admin/database"
	"school-admin/models"
)

const maxTeacherNameLength = 100

type TeacherService struct {
	backend *database.Backend
}

func NewTeacherService(backend *database.Backend) *TeacherService {
	return &TeacherService{backend: backend}
}

func (s *TeacherService) GetAllTeachers(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	if err := s.backend.WithContext(ctx).Order("name ASC").Find(&teachers).Error; err != nil {
		log.Printf("❌ Error fetching teachers: %v", err)
		return nil, fmt.Errorf("fetch teachers: %w", database.TranslateError(err))
	}
	return teachers, nil
}

// GetActiveTeachers lists the teachers offered when assigning a class.
func (s *TeacherService) GetActiveTeachers(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	if err := s.backend.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&teachers).Error; err != nil {
		log.Printf("❌ Error fetching active teachers: %v", err)
		return nil, fmt.Errorf("fetch active teachers: %w", database.TranslateError(err))
	}
	return teachers, nil
}

func (s *TeacherService) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := s.backend.WithContext(ctx).First(&teacher, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, ErrTeacherNotFound)
	}
	return &teacher, nil
}

func (s *TeacherService) AddTeacher(ctx context.Context, name string, isActive bool) (*models.Teacher, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	name, err = normalizeTeacherName(name)
	if err != nil {
		return nil, err
	}

	// Create writes the column default for a false IsActive.
	teacher := models.Teacher{UserID: session.UserID, Name: name, IsActive: isActive}
	err = s.backend.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&teacher).Error; err != nil {
			return err
		}
		if !isActive {
			if err := tx.Model(&teacher).Update("is_active", false).Error; err != nil {
				return err
			}
			teacher.IsActive = false
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Error adding teacher: %v", err)
		return nil, fmt.Errorf("add teacher: %w", database.TranslateError(err))
	}

	log.Printf("✅ Teacher created: %s (%s)", teacher.Name, teacher.ID)
	return &teacher, nil
}

func (s *TeacherService) UpdateTeacher(ctx context.Context, id, name string, isActive bool) (*models.Teacher, error) {
	if _, err := requireSession(ctx); err != nil {
		return nil, err
	}

	name, err := normalizeTeacherName(name)
	if err != nil {
		return nil, err
	}

	result := s.backend.WithContext(ctx).Model(&models.Teacher{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":      name,
		"is_active": isActive,
	})
	if result.Error != nil {
		log.Printf("❌ Error updating teacher %s: %v", id, result.Error)
		return nil, fmt.Errorf("update teacher: %w", database.TranslateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return nil, ErrTeacherNotFound
	}

	log.Printf("✅ Teacher %s updated", id)
	return s.GetTeacher(ctx, id)
}

// SetTeacherActive flips the active flag without touching the name.
func (s *TeacherService) SetTeacherActive(ctx context.Context, id string, active bool) (*models.Teacher, error) {
	teacher, err := s.GetTeacher(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.UpdateTeacher(ctx, id, teacher.Name, active)
}

// DeleteTeacher removes the teacher from its classes, then deletes it.
func (s *TeacherService) DeleteTeacher(ctx context.Context, id string) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	teacher, err := s.GetTeacher(ctx, id)
	if err != nil {
		return err
	}

	err = s.backend.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Class{}).Where("teacher_id = ?", id).Update("teacher_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Teacher{}, "id = ?", id).Error
	})
	if err != nil {
		log.Printf("❌ Error deleting teacher %s: %v", id, err)
		return fmt.Errorf("delete teacher: %w", database.TranslateError(err))
	}

	log.Printf("🗑️ Teacher deleted: %s (%s)", teacher.Name, id)
	return nil
}

func normalizeTeacherName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("teacher name is required")
	}
	if utf8.RuneCountInString(name) > maxTeacherNameLength {
		return "", validationError("teacher name is longer than %d characters", maxTeacherNameLength)
	}
	return name, nil
}
