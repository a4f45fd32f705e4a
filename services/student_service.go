package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"school-admin/database"
	"school-admin/models"
)

type StudentService struct {
	backend *database.Backend
}

func NewStudentService(backend *database.Backend) *StudentService {
	return &StudentService{backend: backend}
}

func (s *StudentService) withQuotes(ctx context.Context) *gorm.DB {
	return s.backend.WithContext(ctx).
		Preload("PriceQuotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") })
}

// GetAllStudents returns every student, newest first, with price quotes.
func (s *StudentService) GetAllStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.withQuotes(ctx).Order("created_at DESC").Find(&students).Error; err != nil {
		log.Printf("❌ Error fetching students: %v", err)
		return nil, fmt.Errorf("fetch students: %w", database.TranslateError(err))
	}
	return students, nil
}

func (s *StudentService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := s.withQuotes(ctx).First(&student, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, ErrStudentNotFound)
	}
	return &student, nil
}

// GetUnassignedStudents lists students that can still be added to a class.
func (s *StudentService) GetUnassignedStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.backend.WithContext(ctx).Where("class_id IS NULL").Order("name, surname").Find(&students).Error; err != nil {
		log.Printf("❌ Error fetching unassigned students: %v", err)
		return nil, fmt.Errorf("fetch unassigned students: %w", database.TranslateError(err))
	}
	return students, nil
}

func (s *StudentService) GetStudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	var students []models.Student
	if err := s.withQuotes(ctx).Where("class_id = ?", classID).Order("name, surname").Find(&students).Error; err != nil {
		log.Printf("❌ Error fetching students of class %s: %v", classID, err)
		return nil, fmt.Errorf("fetch class students: %w", database.TranslateError(err))
	}
	return students, nil
}

func (s *StudentService) AddStudent(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	student, err := studentFromInput(input)
	if err != nil {
		return nil, err
	}
	student.UserID = session.UserID

	if err := s.backend.WithContext(ctx).Omit("PriceQuotes").Create(student).Error; err != nil {
		log.Printf("❌ Error adding student: %v", err)
		return nil, fmt.Errorf("add student: %w", database.TranslateError(err))
	}

	log.Printf("✅ Student created: %s (%s)", student.FullName(), student.ID)
	return s.GetStudent(ctx, student.ID)
}

func (s *StudentService) UpdateStudent(ctx context.Context, id string, input models.StudentInput) (*models.Student, error) {
	if _, err := requireSession(ctx); err != nil {
		return nil, err
	}

	student, err := studentFromInput(input)
	if err != nil {
		return nil, err
	}

	result := s.backend.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":                   student.Name,
		"surname":                student.Surname,
		"phone":                  student.Phone,
		"email":                  student.Email,
		"education_level":        student.EducationLevel,
		"status":                 student.Status,
		"languages":              student.Languages,
		"interested_levels":      student.InterestedLevels,
		"placement_test_level":   student.PlacementTestLevel,
		"placement_test_teacher": student.PlacementTestTeacher,
		"contact_type":           student.ContactType,
		"notes":                  student.Notes,
	})
	if result.Error != nil {
		log.Printf("❌ Error updating student %s: %v", id, result.Error)
		return nil, fmt.Errorf("update student: %w", database.TranslateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return nil, ErrStudentNotFound
	}

	log.Printf("✅ Student %s updated", id)
	return s.GetStudent(ctx, id)
}

func (s *StudentService) UpdateStudentNotes(ctx context.Context, id, notes string) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	result := s.backend.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Update("notes", notes)
	if result.Error != nil {
		log.Printf("❌ Error updating notes of student %s: %v", id, result.Error)
		return fmt.Errorf("update notes: %w", database.TranslateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// DeleteStudent removes the student and its price quotes.
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	err := s.backend.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.PriceQuote{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Student{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStudentNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return err
		}
		log.Printf("❌ Error deleting student %s: %v", id, err)
		return fmt.Errorf("delete student: %w", database.TranslateError(err))
	}

	log.Printf("🗑️ Student deleted: %s", id)
	return nil
}

func (s *StudentService) AddPriceQuote(ctx context.Context, studentID string, input models.PriceQuoteInput) (*models.PriceQuote, error) {
	if _, err := requireSession(ctx); err != nil {
		return nil, err
	}
	if err := validatePriceQuote(input); err != nil {
		return nil, err
	}

	var student models.Student
	if err := s.backend.WithContext(ctx).Select("id").First(&student, "id = ?", studentID).Error; err != nil {
		return nil, notFoundAs(err, ErrStudentNotFound)
	}

	quote := models.PriceQuote{
		StudentID:         studentID,
		CourseLevel:       strings.TrimSpace(input.CourseLevel),
		CourseDuration:    strings.TrimSpace(input.CourseDuration),
		PaymentType:       input.PaymentType,
		CashPrice:         input.CashPrice,
		InstallmentPrice:  input.InstallmentPrice,
		InstallmentCount:  input.InstallmentCount,
		InstallmentAmount: input.InstallmentAmount,
		Discount:          input.Discount,
		FinalPrice:        input.FinalPrice,
		Notes:             strings.TrimSpace(input.Notes),
	}
	if quote.PaymentType == models.PaymentCash {
		quote.InstallmentCount = 0
		quote.InstallmentAmount = 0
	}

	if err := s.backend.WithContext(ctx).Create(&quote).Error; err != nil {
		log.Printf("❌ Error adding price quote: %v", err)
		return nil, fmt.Errorf("add price quote: %w", database.TranslateError(err))
	}

	log.Printf("✅ Price quote %s added for student %s", quote.ID, studentID)
	return &quote, nil
}

// AcceptPriceQuote marks one quote accepted, the student's others not
// accepted, and enrolls the student.
func (s *StudentService) AcceptPriceQuote(ctx context.Context, studentID, quoteID string) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	err := s.backend.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quote models.PriceQuote
		if err := tx.First(&quote, "id = ? AND student_id = ?", quoteID, studentID).Error; err != nil {
			return notFoundAs(err, ErrQuoteNotFound)
		}
		if err := tx.Model(&models.PriceQuote{}).
			Where("student_id = ? AND id <> ?", studentID, quoteID).
			Update("is_accepted", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&quote).Update("is_accepted", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Student{}).Where("id = ?", studentID).Update("status", models.StatusEnrolled).Error
	})
	if err != nil {
		if errors.Is(err, ErrQuoteNotFound) {
			return err
		}
		log.Printf("❌ Error accepting price quote %s: %v", quoteID, err)
		return fmt.Errorf("accept price quote: %w", database.TranslateError(err))
	}

	log.Printf("✅ Price quote %s accepted for student %s", quoteID, studentID)
	return nil
}

func (s *StudentService) DeletePriceQuote(ctx context.Context, studentID, quoteID string) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}

	result := s.backend.WithContext(ctx).Delete(&models.PriceQuote{}, "id = ? AND student_id = ?", quoteID, studentID)
	if result.Error != nil {
		log.Printf("❌ Error deleting price quote %s: %v", quoteID, result.Error)
		return fmt.Errorf("delete price quote: %w", database.TranslateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

// ImportStudents inserts parsed spreadsheet rows in one batch.
func (s *StudentService) ImportStudents(ctx context.Context, inputs []models.StudentInput) (int, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return 0, err
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	students := make([]models.Student, 0, len(inputs))
	for i, input := range inputs {
		student, err := studentFromInput(input)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		student.UserID = session.UserID
		students = append(students, *student)
	}

	if err := s.backend.WithContext(ctx).Omit("PriceQuotes").CreateInBatches(&students, 100).Error; err != nil {
		log.Printf("❌ Error importing students: %v", err)
		return 0, fmt.Errorf("import students: %w", database.TranslateError(err))
	}

	log.Printf("✅ Imported %d students", len(students))
	return len(students), nil
}

func studentFromInput(input models.StudentInput) (*models.Student, error) {
	student := &models.Student{
		Name:                 strings.TrimSpace(input.Name),
		Surname:              strings.TrimSpace(input.Surname),
		Phone:                strings.TrimSpace(input.Phone),
		Email:                strings.TrimSpace(input.Email),
		EducationLevel:       input.EducationLevel,
		Status:               input.Status,
		Languages:            datatypes.JSONSlice[string]{},
		InterestedLevels:     datatypes.JSONSlice[models.LanguageLevel]{},
		PlacementTestLevel:   input.PlacementTestLevel,
		PlacementTestTeacher: strings.TrimSpace(input.PlacementTestTeacher),
		ContactType:          input.ContactType,
		Notes:                input.Notes,
	}
	if student.Name == "" || student.Surname == "" {
		return nil, validationError("name and surname are required")
	}
	if student.Phone == "" {
		return nil, validationError("phone is required")
	}
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"name", student.Name, 100},
		{"surname", student.Surname, 100},
		{"phone", student.Phone, 30},
		{"email", student.Email, 255},
		{"placement test teacher", student.PlacementTestTeacher, 100},
	} {
		if utf8.RuneCountInString(f.value) > f.max {
			return nil, validationError("%s is longer than %d characters", f.name, f.max)
		}
	}
	if student.EducationLevel == "" {
		student.EducationLevel = models.EducationAdult
	}
	if student.Status == "" {
		student.Status = models.StatusNew
	}
	if student.ContactType == "" {
		student.ContactType = models.ContactPhone
	}
	if student.PlacementTestLevel != nil && *student.PlacementTestLevel == "" {
		student.PlacementTestLevel = nil
	}
	for _, l := range input.Languages {
		if l = strings.TrimSpace(l); l != "" {
			student.Languages = append(student.Languages, l)
		}
	}
	for _, l := range input.InterestedLevels {
		if !l.Valid() {
			return nil, validationError("unknown level %q", l)
		}
		student.InterestedLevels = append(student.InterestedLevels, l)
	}
	return student, nil
}

func validatePriceQuote(input models.PriceQuoteInput) error {
	if strings.TrimSpace(input.CourseLevel) == "" {
		return validationError("course level is required")
	}
	if input.PaymentType != models.PaymentCash && input.PaymentType != models.PaymentInstallment {
		return validationError("unknown payment type %q", input.PaymentType)
	}
	if input.FinalPrice <= 0 {
		return validationError("final price must be positive")
	}
	if input.PaymentType == models.PaymentInstallment && input.InstallmentCount <= 0 {
		return validationError("installment count is required for installment payments")
	}
	return nil
}
