package models

import "time"

// InstallmentStatus is the payment state of a single installment.
// The only legal transition is pending to paid; there is no unpay.
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
)

// Installment is one scheduled portion of a split expense. Installments
// are created in a single batch together with their expense and never
// added or removed afterwards; the numbers of an expense's installments
// always form the contiguous range 1..N.
type Installment struct {
	Base
	ExpenseID   uint              `gorm:"not null;index" json:"expense_id"`
	Number      int               `gorm:"not null" json:"number"`
	AmountCents int64             `gorm:"type:bigint;not null" json:"amount_cents"`
	DueDate     time.Time         `gorm:"not null;index" json:"due_date"`
	Status      InstallmentStatus `gorm:"size:20;not null;default:pending" json:"status"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`

	Expense Expense `gorm:"foreignKey:ExpenseID" json:"-"`
}
