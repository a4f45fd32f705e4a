package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Class struct {
	ID          string                      `json:"id" gorm:"primaryKey;size:36"`
	UserID      string                      `json:"userId" gorm:"size:36"`
	Name        string                      `json:"name" gorm:"not null;size:200"`
	Level       LanguageLevel               `json:"level" gorm:"not null;size:20;index"`
	StartDate   *time.Time                  `json:"startDate,omitempty" gorm:"type:date"`
	EndDate     *time.Time                  `json:"endDate,omitempty" gorm:"type:date"`
	Days        datatypes.JSONSlice[string] `json:"days"`
	TimeRange   string                      `json:"timeRange" gorm:"size:50;not null;default:''"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	TeacherID   *string                     `json:"teacherId,omitempty" gorm:"size:36;index"`
	Teacher     *Teacher                    `json:"-" gorm:"foreignKey:TeacherID"`
	TeacherName string                      `json:"teacherName,omitempty" gorm:"-"`
	StudentIDs  []string                    `json:"studentIds" gorm:"-"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (Class) TableName() string {
	return "classes"
}

func (c *Class) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// AfterFind fills the fields the API view derives from joined rows.
func (c *Class) AfterFind(tx *gorm.DB) error {
	if c.Teacher != nil {
		c.TeacherName = c.Teacher.Name
	}
	if c.Days == nil {
		c.Days = datatypes.JSONSlice[string]{}
	}
	if c.Tags == nil {
		c.Tags = datatypes.JSONSlice[string]{}
	}
	if c.StudentIDs == nil {
		c.StudentIDs = []string{}
	}
	return nil
}

// ClassInput is the create/update form of a class.
type ClassInput struct {
	Name      string        `json:"name" validate:"required,max=200"`
	Level     LanguageLevel `json:"level" validate:"required,languagelevel"`
	StartDate string        `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string        `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Days      []string      `json:"days" validate:"dive,weekday"`
	TimeRange string        `json:"timeRange" validate:"max=50"`
	Tags      []string      `json:"tags" validate:"dive,max=50"`
	TeacherID *string       `json:"teacherId"`
}

// ClassDetail is a class with its students, as shown in the detail panel.
type ClassDetail struct {
	Class    Class     `json:"class"`
	Students []Student `json:"students"`
}
