package models

// CategoryType tags a category as usable for incomes or for expenses.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category classifies incomes and expenses. Categories are a shared
// catalog, not owned by any user.
type Category struct {
	Base
	Name string       `gorm:"size:100;not null" json:"name"`
	Type CategoryType `gorm:"size:20;not null" json:"type"`

	Incomes  []Income  `gorm:"foreignKey:CategoryID" json:"incomes,omitempty"`
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}
