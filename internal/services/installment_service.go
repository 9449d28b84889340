package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "gastos/internal/errors"
	"gastos/internal/models"
	"gastos/internal/scope"
)

// installmentService owns the pending-to-paid transition and the
// per-month installment views.
type installmentService struct {
	db *gorm.DB
}

// NewInstallmentService creates a new InstallmentServicer.
func NewInstallmentService(db *gorm.DB) InstallmentServicer {
	return &installmentService{db: db}
}

// PayInstallment transitions an installment from pending to paid and
// stamps the payment time. Paying an already-paid installment is a
// successful no-op that returns the installment unchanged, so client
// retries are safe. The row is locked for the duration of the
// transaction, which serializes concurrent pay attempts: exactly one
// performs the transition, the rest observe the paid state.
func (s *installmentService) PayInstallment(caller scope.Caller, installmentID uint) (*models.Installment, error) {
	var result models.Installment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite (tests) serializes writers on its own and rejects FOR UPDATE.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var installment models.Installment
		if err := q.First(&installment, installmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInstallmentNotFound
			}
			return storeError(err)
		}

		var expense models.Expense
		if err := tx.First(&expense, installment.ExpenseID).Error; err != nil {
			return storeError(err)
		}
		if !caller.CanAccess(expense.UserID) {
			return apperrors.ErrForbidden
		}

		if installment.Status == models.InstallmentStatusPaid {
			result = installment
			return nil
		}

		now := time.Now()
		if err := tx.Model(&installment).Updates(map[string]interface{}{
			"status":  models.InstallmentStatusPaid,
			"paid_at": now,
		}).Error; err != nil {
			return storeError(err)
		}

		installment.Status = models.InstallmentStatusPaid
		installment.PaidAt = &now
		result = installment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPendingInstallments returns the target user's pending installments
// due in the given month.
func (s *installmentService) GetPendingInstallments(caller scope.Caller, targetUserID uint, period Period) ([]InstallmentDetail, error) {
	return s.installmentsForPeriod(caller, targetUserID, period, models.InstallmentStatusPending)
}

// GetPaidInstallments returns the target user's paid installments due in
// the given month.
func (s *installmentService) GetPaidInstallments(caller scope.Caller, targetUserID uint, period Period) ([]InstallmentDetail, error) {
	return s.installmentsForPeriod(caller, targetUserID, period, models.InstallmentStatusPaid)
}

func (s *installmentService) installmentsForPeriod(caller scope.Caller, targetUserID uint, period Period, status models.InstallmentStatus) ([]InstallmentDetail, error) {
	ownerID, err := caller.ResolveTarget(targetUserID)
	if err != nil {
		return nil, err
	}
	if !period.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year or month")
	}

	start, end := period.Bounds()
	var installments []models.Installment
	if err := s.db.
		Joins("JOIN expenses ON expenses.id = installments.expense_id AND expenses.deleted_at IS NULL").
		Where("expenses.user_id = ?", ownerID).
		Where("installments.due_date >= ? AND installments.due_date < ?", start, end).
		Where("installments.status = ?", status).
		Preload("Expense").
		Preload("Expense.Category").
		Order("installments.due_date, installments.expense_id, installments.number").
		Find(&installments).Error; err != nil {
		return nil, storeError(err)
	}

	if len(installments) == 0 {
		return []InstallmentDetail{}, nil
	}

	progress, err := s.planProgress(installments)
	if err != nil {
		return nil, err
	}

	details := make([]InstallmentDetail, len(installments))
	for i, inst := range installments {
		p := progress[inst.ExpenseID]
		details[i] = InstallmentDetail{
			Installment:        inst,
			ExpenseDescription: inst.Expense.Description,
			CategoryName:       inst.Expense.Category.Name,
			PaidCount:          p.Paid,
			TotalCount:         p.Total,
			RemainingCount:     p.Total - p.Paid,
		}
	}
	return details, nil
}

// planProgress computes paid/total installment counts per parent expense.
type planProgress struct {
	ExpenseID uint
	Total     int
	Paid      int
}

func (s *installmentService) planProgress(installments []models.Installment) (map[uint]planProgress, error) {
	ids := make([]uint, 0, len(installments))
	seen := make(map[uint]bool)
	for _, inst := range installments {
		if !seen[inst.ExpenseID] {
			seen[inst.ExpenseID] = true
			ids = append(ids, inst.ExpenseID)
		}
	}

	var rows []planProgress
	if err := s.db.Model(&models.Installment{}).
		Select("expense_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS paid", models.InstallmentStatusPaid).
		Where("expense_id IN ?", ids).
		Group("expense_id").
		Scan(&rows).Error; err != nil {
		return nil, storeError(err)
	}

	progress := make(map[uint]planProgress, len(rows))
	for _, row := range rows {
		progress[row.ExpenseID] = row
	}
	return progress, nil
}
