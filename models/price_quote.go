package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceQuote is a recorded tuition offer attached to a student.
type PriceQuote struct {
	ID                string      `json:"id" gorm:"primaryKey;size:36"`
	StudentID         string      `json:"studentId" gorm:"size:36;not null;index"`
	CourseLevel       string      `json:"courseLevel" gorm:"size:50;not null"`
	CourseDuration    string      `json:"courseDuration" gorm:"size:50"`
	PaymentType       PaymentType `json:"paymentType" gorm:"size:10;not null"`
	CashPrice         float64     `json:"cashPrice,omitempty"`
	InstallmentPrice  float64     `json:"installmentPrice,omitempty"`
	InstallmentCount  int         `json:"installmentCount,omitempty"`
	InstallmentAmount float64     `json:"installmentAmount,omitempty"`
	Discount          float64     `json:"discount,omitempty"`
	FinalPrice        float64     `json:"finalPrice" gorm:"not null"`
	Notes             string      `json:"notes,omitempty" gorm:"type:text"`
	IsAccepted        bool        `json:"isAccepted" gorm:"not null;default:false"`
	CreatedAt         time.Time   `json:"createdAt"`
}

func (PriceQuote) TableName() string {
	return "price_quotes"
}

func (q *PriceQuote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

type PriceQuoteInput struct {
	CourseLevel       string      `json:"courseLevel" validate:"required,max=50"`
	CourseDuration    string      `json:"courseDuration" validate:"max=50"`
	PaymentType       PaymentType `json:"paymentType" validate:"required,oneof=pesin taksit"`
	CashPrice         float64     `json:"cashPrice" validate:"gte=0"`
	InstallmentPrice  float64     `json:"installmentPrice" validate:"gte=0"`
	InstallmentCount  int         `json:"installmentCount" validate:"gte=0,lte=36"`
	InstallmentAmount float64     `json:"installmentAmount" validate:"gte=0"`
	Discount          float64     `json:"discount" validate:"gte=0"`
	FinalPrice        float64     `json:"finalPrice" validate:"gt=0"`
	Notes             string      `json:"notes"`
}
