package models

// UserRole determines the scope of records a user may read and mutate.
// Admins operate on every user's data, standard users only on their own.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleStandard UserRole = "standard"
)

// User represents an account holder.
type User struct {
	Base
	Username         string   `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password         string   `gorm:"not null" json:"-"`
	Role             UserRole `gorm:"size:20;not null;default:standard" json:"role"`
	RefreshTokenHash string   `gorm:"size:64" json:"-"`

	Incomes  []Income  `gorm:"foreignKey:UserID" json:"incomes,omitempty"`
	Expenses []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
}
