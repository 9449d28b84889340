package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "gastos/internal/errors"
	"gastos/internal/models"
	"gastos/internal/pagination"
	"gastos/internal/scope"
)

// incomeService handles income records. Incomes are atomic: no
// installments, and amount edits cascade nowhere.
type incomeService struct {
	db *gorm.DB
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB) IncomeServicer {
	return &incomeService{db: db}
}

// CreateIncome records a new income for the target user.
func (s *incomeService) CreateIncome(caller scope.Caller, input IncomeInput) (*models.Income, error) {
	ownerID, err := caller.ResolveTarget(input.UserID)
	if err != nil {
		return nil, err
	}

	if input.AmountCents <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if err := s.checkCategory(input.CategoryID); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	income := &models.Income{
		UserID:      ownerID,
		CategoryID:  input.CategoryID,
		AmountCents: input.AmountCents,
		Description: input.Description,
		Date:        date,
	}

	if err := s.db.Create(income).Error; err != nil {
		return nil, storeError(err)
	}
	return income, nil
}

// GetIncomes returns a paginated list of the target user's incomes,
// optionally restricted to one month.
func (s *incomeService) GetIncomes(caller scope.Caller, targetUserID uint, period *Period, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	ownerID, err := caller.ResolveTarget(targetUserID)
	if err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Income{}).Where("user_id = ?", ownerID)
	if period != nil {
		start, end := period.Bounds()
		base = base.Where("date >= ? AND date < ?", start, end)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, storeError(err)
	}

	var incomes []models.Income
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("date DESC").Find(&incomes).Error; err != nil {
		return nil, storeError(err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetIncomeByID retrieves one income, scope-checked against its owner.
func (s *incomeService) GetIncomeByID(caller scope.Caller, incomeID uint) (*models.Income, error) {
	var income models.Income
	if err := s.db.Preload("Category").First(&income, incomeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, storeError(err)
	}
	if !caller.CanAccess(income.UserID) {
		return nil, apperrors.ErrForbidden
	}
	return &income, nil
}

// UpdateIncome edits an income's own fields.
func (s *incomeService) UpdateIncome(caller scope.Caller, incomeID uint, update IncomeUpdate) (*models.Income, error) {
	income, err := s.GetIncomeByID(caller, incomeID)
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
		if err := s.db.Model(income).Updates(updates).Error; err != nil {
			return nil, storeError(err)
		}
	}
	return income, nil
}

// DeleteIncome soft-deletes an income.
func (s *incomeService) DeleteIncome(caller scope.Caller, incomeID uint) error {
	income, err := s.GetIncomeByID(caller, incomeID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(income).Error; err != nil {
		return storeError(err)
	}
	return nil
}

// checkCategory verifies the category exists and is an income category.
func (s *incomeService) checkCategory(categoryID uint) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return storeError(err)
	}
	if category.Type != models.CategoryTypeIncome {
		return apperrors.ErrCategoryTypeMismatch
	}
	return nil
}
