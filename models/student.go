package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Student is a customer record: a prospective or enrolled student.
type Student struct {
	ID                   string                             `json:"id" gorm:"primaryKey;size:36"`
	UserID               string                             `json:"userId" gorm:"size:36"`
	Name                 string                             `json:"name" gorm:"not null;size:100"`
	Surname              string                             `json:"surname" gorm:"not null;size:100;index"`
	Phone                string                             `json:"phone" gorm:"not null;size:30"`
	Email                string                             `json:"email,omitempty" gorm:"size:255"`
	EducationLevel       EducationLevel                     `json:"educationLevel" gorm:"size:20;not null;default:'yetiskin'"`
	Status               StudentStatus                      `json:"status" gorm:"size:20;not null;default:'yeni'"`
	Languages            datatypes.JSONSlice[string]        `json:"languages"`
	InterestedLevels     datatypes.JSONSlice[LanguageLevel] `json:"interestedLevels"`
	PlacementTestLevel   *LanguageLevel                     `json:"placementTestLevel,omitempty" gorm:"size:20"`
	PlacementTestTeacher string                             `json:"placementTestTeacher,omitempty" gorm:"size:100"`
	ContactType          ContactType                        `json:"contactType" gorm:"size:20;not null;default:'telefon'"`
	ClassID              *string                            `json:"classId,omitempty" gorm:"size:36;index"`
	Notes                string                             `json:"notes" gorm:"type:text"`
	PriceQuotes          []PriceQuote                       `json:"priceQuotes" gorm:"foreignKey:StudentID"`
	CreatedAt            time.Time                          `json:"createdAt"`
	UpdatedAt            time.Time                          `json:"updatedAt"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *Student) AfterFind(tx *gorm.DB) error {
	if s.Languages == nil {
		s.Languages = datatypes.JSONSlice[string]{}
	}
	if s.InterestedLevels == nil {
		s.InterestedLevels = datatypes.JSONSlice[LanguageLevel]{}
	}
	if s.PriceQuotes == nil {
		s.PriceQuotes = []PriceQuote{}
	}
	return nil
}

func (s *Student) FullName() string {
	return s.Name + " " + s.Surname
}

// StudentInput is the create/update form of a student.
type StudentInput struct {
	Name                 string          `json:"name" validate:"required,max=100"`
	Surname              string          `json:"surname" validate:"required,max=100"`
	Phone                string          `json:"phone" validate:"required,max=30"`
	Email                string          `json:"email" validate:"omitempty,email,max=255"`
	EducationLevel       EducationLevel  `json:"educationLevel" validate:"omitempty,oneof=ilkogretim lise universite yetiskin"`
	Status               StudentStatus   `json:"status" validate:"omitempty,oneof=yeni ilgili kayitli iptal"`
	Languages            []string        `json:"languages" validate:"dive,max=50"`
	InterestedLevels     []LanguageLevel `json:"interestedLevels" validate:"dive,languagelevel"`
	PlacementTestLevel   *LanguageLevel  `json:"placementTestLevel" validate:"omitempty,languagelevel"`
	PlacementTestTeacher string          `json:"placementTestTeacher" validate:"max=100"`
	ContactType          ContactType     `json:"contactType" validate:"omitempty,oneof=telefon yuz-yuze"`
	Notes                string          `json:"notes"`
}
