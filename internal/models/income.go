package models

import "time"

// Income is an atomic money-in record. It has no installments; editing
// its amount cascades nowhere.
type Income struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CategoryID  uint      `gorm:"not null" json:"category_id"`
	AmountCents int64     `gorm:"type:bigint;not null" json:"amount_cents"`
	Description string    `gorm:"size:500" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
