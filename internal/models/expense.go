package models

import "time"

// Expense is a money-out record. AmountCents is the total committed
// amount; when the expense is split, the amounts of its installments sum
// to exactly this value. How much of it has actually been paid is always
// derived from installment state, never stored.
type Expense struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CategoryID  uint      `gorm:"not null" json:"category_id"`
	AmountCents int64     `gorm:"type:bigint;not null" json:"amount_cents"`
	Description string    `gorm:"size:500" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`

	Category     Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Installments []Installment `gorm:"foreignKey:ExpenseID" json:"installments,omitempty"`
}

// HasInstallments reports whether the expense is split into installments.
// Only meaningful when the Installments association has been loaded.
func (e *Expense) HasInstallments() bool {
	return len(e.Installments) > 0
}

// PaidCents returns the amount already paid: the full amount for a simple
// expense, the sum of paid installments for a split one. Requires the
// Installments association to be loaded.
func (e *Expense) PaidCents() int64 {
	if !e.HasInstallments() {
		return e.AmountCents
	}
	var paid int64
	for _, inst := range e.Installments {
		if inst.Status == InstallmentStatusPaid {
			paid += inst.AmountCents
		}
	}
	return paid
}
