package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "gastos/internal/errors"
	"gastos/internal/models"
	"gastos/internal/scope"
)

// summaryService computes aggregated views over incomes and expenses.
// Every summary is recomputed from current ledger state on each call;
// there is no materialized view to drift out of sync.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// GetMonthlySummary groups the target ledger's incomes and expenses into
// (year, month) buckets keyed by transaction date. The result is the
// outer union of both key sets: a month with only incomes still reports
// its expenses as zero and vice versa. Buckets come back in ascending
// (year, month) order.
//
// Target resolution: a standard caller with no explicit target gets their
// own ledger; an admin with no explicit target gets system-wide totals
// across every user. An admin wanting only their own numbers passes their
// own user ID.
func (s *summaryService) GetMonthlySummary(caller scope.Caller, target SummaryTarget) ([]MonthBucket, error) {
	allUsers := target.AllUsers
	var ownerID uint
	switch {
	case allUsers:
		if !caller.IsAdmin() {
			return nil, apperrors.ErrForbidden
		}
	case target.UserID == 0 && caller.IsAdmin():
		allUsers = true
	default:
		resolved, err := caller.ResolveTarget(target.UserID)
		if err != nil {
			return nil, err
		}
		ownerID = resolved
	}

	incomeRows, err := s.datedAmounts(&models.Income{}, allUsers, ownerID)
	if err != nil {
		return nil, err
	}
	expenseRows, err := s.datedAmounts(&models.Expense{}, allUsers, ownerID)
	if err != nil {
		return nil, err
	}

	type key struct {
		year  int
		month int
	}
	buckets := make(map[key]*MonthBucket)
	bucket := func(t time.Time) *MonthBucket {
		k := key{t.Year(), int(t.Month())}
		b, ok := buckets[k]
		if !ok {
			b = &MonthBucket{Year: k.year, Month: k.month}
			buckets[k] = b
		}
		return b
	}

	for _, row := range incomeRows {
		bucket(row.Date).IncomeCents += row.AmountCents
	}
	for _, row := range expenseRows {
		bucket(row.Date).ExpenseCents += row.AmountCents
	}

	result := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

// datedAmount is the projection the summary is built from.
type datedAmount struct {
	Date        time.Time
	AmountCents int64
}

func (s *summaryService) datedAmounts(model interface{}, allUsers bool, ownerID uint) ([]datedAmount, error) {
	q := s.db.Model(model).Select("date, amount_cents")
	if !allUsers {
		q = q.Where("user_id = ?", ownerID)
	}
	var rows []datedAmount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, storeError(err)
	}
	return rows, nil
}

// GetUserBalance returns the target user's lifetime totals. Expense
// totals use each expense's full committed amount, not the portion paid
// so far: the balance reflects committed spend, not cash disbursed.
func (s *summaryService) GetUserBalance(caller scope.Caller, targetUserID uint) (*BalanceSummary, error) {
	ownerID, err := caller.ResolveTarget(targetUserID)
	if err != nil {
		return nil, err
	}

	var income, expense int64
	if err := s.db.Model(&models.Income{}).Where("user_id = ?", ownerID).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&income).Error; err != nil {
		return nil, storeError(err)
	}
	if err := s.db.Model(&models.Expense{}).Where("user_id = ?", ownerID).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&expense).Error; err != nil {
		return nil, storeError(err)
	}

	return &BalanceSummary{
		IncomeCents:  income,
		ExpenseCents: expense,
		BalanceCents: income - expense,
	}, nil
}
