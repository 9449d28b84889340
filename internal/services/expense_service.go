package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "gastos/internal/errors"
	"gastos/internal/models"
	"gastos/internal/money"
	"gastos/internal/pagination"
	"gastos/internal/scope"
)

// maxInstallments caps a plan at five years of monthly payments.
const maxInstallments = 60

// expenseService handles expenses and schedules their installment plans.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense records a new expense for the target user. When
// input.Installments is 2 or more, the amount is divided into that many
// installments, each due one calendar month after the previous, and the
// expense and its full installment set are written in one transaction:
// the expense never exists without its plan or vice versa.
func (s *expenseService) CreateExpense(caller scope.Caller, input ExpenseInput) (*models.Expense, error) {
	ownerID, err := caller.ResolveTarget(input.UserID)
	if err != nil {
		return nil, err
	}

	if input.AmountCents <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Installments < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "installment count must be at least 1")
	}
	if input.Installments > maxInstallments {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "installment count exceeds the maximum of 60")
	}
	if err := s.checkCategory(input.CategoryID); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	expense := &models.Expense{
		UserID:      ownerID,
		CategoryID:  input.CategoryID,
		AmountCents: input.AmountCents,
		Description: input.Description,
		Date:        date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return storeError(err)
		}
		if input.Installments >= 2 {
			installments := buildInstallmentPlan(expense.ID, input.AmountCents, date, input.Installments)
			if err := tx.Create(&installments).Error; err != nil {
				return storeError(err)
			}
			expense.Installments = installments
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// buildInstallmentPlan splits amountCents into n installments numbered
// 1..n. Installment n is due n-1 calendar months after start, clamped to
// the last day of shorter months; the division remainder lands on the
// last installment so the plan sums exactly to the expense amount.
func buildInstallmentPlan(expenseID uint, amountCents int64, start time.Time, n int) []models.Installment {
	amounts := money.Split(amountCents, n)
	installments := make([]models.Installment, n)
	for i := 0; i < n; i++ {
		installments[i] = models.Installment{
			ExpenseID:   expenseID,
			Number:      i + 1,
			AmountCents: amounts[i],
			DueDate:     addMonthsClamped(start, i),
			Status:      models.InstallmentStatusPending,
		}
	}
	return installments
}

// addMonthsClamped advances t by the given number of calendar months,
// keeping the day of month where possible and clamping to the last valid
// day otherwise (Jan 31 + 1 month = Feb 28/29, not Mar 2).
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).
		AddDate(0, months, 0)
	day := t.Day()
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// GetExpenses returns a paginated list of the target user's expenses,
// optionally restricted to one month.
func (s *expenseService) GetExpenses(caller scope.Caller, targetUserID uint, period *Period, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	ownerID, err := caller.ResolveTarget(targetUserID)
	if err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", ownerID)
	if period != nil {
		start, end := period.Bounds()
		base = base.Where("date >= ? AND date < ?", start, end)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, storeError(err)
	}

	var expenses []models.Expense
	if err := base.Preload("Category").Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installments.number")
	}).Scopes(pagination.Paginate(page)).Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, storeError(err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves one expense with its derived payment progress,
// scope-checked against its owner.
func (s *expenseService) GetExpenseByID(caller scope.Caller, expenseID uint) (*ExpenseDetail, error) {
	expense, err := s.loadExpense(caller, expenseID)
	if err != nil {
		return nil, err
	}

	detail := &ExpenseDetail{
		Expense:    *expense,
		PaidCents:  expense.PaidCents(),
		TotalCount: len(expense.Installments),
	}
	detail.RemainingCents = expense.AmountCents - detail.PaidCents
	for _, inst := range expense.Installments {
		if inst.Status == models.InstallmentStatusPaid {
			detail.PaidCount++
		}
	}
	return detail, nil
}

// UpdateExpense edits an expense's own fields. The amount of an expense
// with an installment plan is immutable: changing it would break the
// plan-sum invariant, so the attempt is rejected as a conflict.
func (s *expenseService) UpdateExpense(caller scope.Caller, expenseID uint, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.loadExpense(caller, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.CategoryID != nil {
		if err := s.checkCategory(*update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	}
	if update.AmountCents != nil {
		if expense.HasInstallments() {
			return nil, apperrors.ErrExpenseHasInstallments
		}
		if *update.AmountCents <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount_cents"] = *update.AmountCents
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, storeError(err)
		}
	}
	return expense, nil
}

// DeleteExpense removes an expense together with its installments in one
// transaction.
func (s *expenseService) DeleteExpense(caller scope.Caller, expenseID uint) error {
	expense, err := s.loadExpense(caller, expenseID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.Installment{}).Error; err != nil {
			return storeError(err)
		}
		if err := tx.Delete(expense).Error; err != nil {
			return storeError(err)
		}
		return nil
	})
}

// loadExpense fetches an expense with its installments and enforces the
// access scope against its owner.
func (s *expenseService) loadExpense(caller scope.Caller, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installments.number")
	}).First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, storeError(err)
	}
	if !caller.CanAccess(expense.UserID) {
		return nil, apperrors.ErrForbidden
	}
	return &expense, nil
}

// checkCategory verifies the category exists and is an expense category.
func (s *expenseService) checkCategory(categoryID uint) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return storeError(err)
	}
	if category.Type != models.CategoryTypeExpense {
		return apperrors.ErrCategoryTypeMismatch
	}
	return nil
}
