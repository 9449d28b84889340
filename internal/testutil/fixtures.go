package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gastos/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a standard user with a hashed password and
// unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleStandard)
}

// CreateTestAdmin creates a user with the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleAdmin)
}

// CreateTestUserWithRole creates a user with the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: fmt.Sprintf("user%d", nextID()),
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: fmt.Sprintf("Test Category %d", nextID()),
		Type: categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestIncome creates an income of the given amount (in cents)
// dated at the given time.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID, categoryID uint, amountCents int64, date time.Time) *models.Income {
	t.Helper()

	income := &models.Income{
		UserID:      userID,
		CategoryID:  categoryID,
		AmountCents: amountCents,
		Description: fmt.Sprintf("Test Income %d", nextID()),
		Date:        date,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestExpense creates a simple expense (no installments) of the
// given amount (in cents) dated at the given time.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID uint, amountCents int64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		AmountCents: amountCents,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Date:        date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestInstallment creates a pending installment for the given expense.
func CreateTestInstallment(t *testing.T, db *gorm.DB, expenseID uint, number int, amountCents int64, dueDate time.Time) *models.Installment {
	t.Helper()

	installment := &models.Installment{
		ExpenseID:   expenseID,
		Number:      number,
		AmountCents: amountCents,
		DueDate:     dueDate,
		Status:      models.InstallmentStatusPending,
	}
	if err := db.Create(installment).Error; err != nil {
		t.Fatalf("failed to create test installment: %v", err)
	}
	return installment
}
