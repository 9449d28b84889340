package testutil

import (
	"testing"
	"time"

	"gastos/internal/models"
)

func TestSetupTestDB(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)

	// All tables should exist and be empty.
	var count int64
	for _, model := range allModels {
		if err := db.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("counting %T failed: %v", model, err)
		}
		if count != 0 {
			t.Errorf("expected empty table for %T, got %d rows", model, count)
		}
	}
}

func TestFixturesAreIsolatedPerDatabase(t *testing.T) {
	db1 := SetupTestDB(t)
	defer TeardownTestDB(t, db1)
	db2 := SetupTestDB(t)
	defer TeardownTestDB(t, db2)

	CreateTestUser(t, db1)

	var count int64
	if err := db2.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected db2 to be isolated from db1, found %d users", count)
	}
}

func TestFixtureGraph(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)

	user := CreateTestUser(t, db)
	cat := CreateTestCategory(t, db, models.CategoryTypeExpense)
	expense := CreateTestExpense(t, db, user.ID, cat.ID, 10000, time.Now())
	inst := CreateTestInstallment(t, db, expense.ID, 1, 10000, time.Now())

	if inst.ExpenseID != expense.ID {
		t.Errorf("installment not linked to expense")
	}
	if inst.Status != models.InstallmentStatusPending {
		t.Errorf("expected pending installment, got %s", inst.Status)
	}
}
