package services

import (
	"context"
	"errors"
	"time"

	apperrors "gastos/internal/errors"
	"gastos/internal/models"
	"gastos/internal/pagination"
	"gastos/internal/scope"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// CategoryServicer defines the contract for the shared category catalog.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType) (*models.Category, error)
	GetCategories(categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID uint) (*models.Category, error)
	UpdateCategory(categoryID uint, name string) (*models.Category, error)
	DeleteCategory(categoryID uint) error
}

// IncomeServicer defines the contract for income records.
type IncomeServicer interface {
	CreateIncome(caller scope.Caller, input IncomeInput) (*models.Income, error)
	GetIncomes(caller scope.Caller, targetUserID uint, period *Period, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)
	GetIncomeByID(caller scope.Caller, incomeID uint) (*models.Income, error)
	UpdateIncome(caller scope.Caller, incomeID uint, update IncomeUpdate) (*models.Income, error)
	DeleteIncome(caller scope.Caller, incomeID uint) error
}

// ExpenseServicer defines the contract for expenses and their installment plans.
type ExpenseServicer interface {
	CreateExpense(caller scope.Caller, input ExpenseInput) (*models.Expense, error)
	GetExpenses(caller scope.Caller, targetUserID uint, period *Period, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(caller scope.Caller, expenseID uint) (*ExpenseDetail, error)
	UpdateExpense(caller scope.Caller, expenseID uint, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(caller scope.Caller, expenseID uint) error
}

// InstallmentServicer defines the contract for installment payment and views.
type InstallmentServicer interface {
	PayInstallment(caller scope.Caller, installmentID uint) (*models.Installment, error)
	GetPendingInstallments(caller scope.Caller, targetUserID uint, period Period) ([]InstallmentDetail, error)
	GetPaidInstallments(caller scope.Caller, targetUserID uint, period Period) ([]InstallmentDetail, error)
}

// SummaryServicer defines the contract for aggregated views over the ledger.
// Summaries are recomputed from current state on every call, never cached.
type SummaryServicer interface {
	GetMonthlySummary(caller scope.Caller, target SummaryTarget) ([]MonthBucket, error)
	GetUserBalance(caller scope.Caller, targetUserID uint) (*BalanceSummary, error)
}

// Period is a (year, month) aggregation bucket key.
type Period struct {
	Year  int
	Month time.Month
}

// Bounds returns the half-open UTC interval [start, end) covering the period.
func (p Period) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Valid reports whether the period is a plausible year/month pair.
func (p Period) Valid() bool {
	return p.Year >= 1 && p.Month >= time.January && p.Month <= time.December
}

// IncomeInput carries the fields for creating an income record.
// UserID zero means the caller's own ledger.
type IncomeInput struct {
	UserID      uint
	CategoryID  uint
	AmountCents int64
	Description string
	Date        time.Time
}

// IncomeUpdate carries optional field changes; nil fields are left untouched.
type IncomeUpdate struct {
	CategoryID  *uint
	AmountCents *int64
	Description *string
	Date        *time.Time
}

// ExpenseInput carries the fields for creating an expense. Installments
// of 0 or 1 creates a simple expense; 2 or more splits the amount into
// that many scheduled installments.
type ExpenseInput struct {
	UserID       uint
	CategoryID   uint
	AmountCents  int64
	Description  string
	Date         time.Time
	Installments int
}

// ExpenseUpdate carries optional field changes; nil fields are left untouched.
type ExpenseUpdate struct {
	CategoryID  *uint
	AmountCents *int64
	Description *string
	Date        *time.Time
}

// ExpenseDetail is an expense annotated with its derived payment progress.
type ExpenseDetail struct {
	Expense        models.Expense
	PaidCents      int64
	RemainingCents int64
	PaidCount      int
	TotalCount     int
}

// InstallmentDetail is an installment annotated with its parent expense
// and the plan's payment progress.
type InstallmentDetail struct {
	Installment        models.Installment
	ExpenseDescription string
	CategoryName       string
	PaidCount          int
	TotalCount         int
	RemainingCount     int
}

// SummaryTarget selects whose ledger a summary covers. UserID zero means
// the caller; AllUsers covers the entire system and is admin-only.
type SummaryTarget struct {
	UserID   uint
	AllUsers bool
}

// MonthBucket holds one month's income and expense totals. A month with
// data on only one side still appears, with the other side zero.
type MonthBucket struct {
	Year         int   `json:"year"`
	Month        int   `json:"month"`
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
}

// BalanceSummary holds a user's lifetime totals. Expenses count at their
// full committed amount, not the portion paid so far.
type BalanceSummary struct {
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
	BalanceCents int64 `json:"balance_cents"`
}

// storeError classifies a storage failure: timeouts and cancellations are
// surfaced as retryable, everything else as internal.
func storeError(err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
