package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "gastos/internal/errors"
	"gastos/internal/models"
	"gastos/internal/pagination"
)

// categoryService manages the shared category catalog. Categories are
// referenced by incomes and expenses of every user and are not owned by
// anyone; mutating them is restricted to admins at the routing layer.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category.
func (s *categoryService) CreateCategory(name string, categoryType models.CategoryType) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("name = ? AND type = ?", name, categoryType).
		Count(&count).Error; err != nil {
		return nil, storeError(err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	category := &models.Category{
		Name: name,
		Type: categoryType,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, storeError(err)
	}

	return category, nil
}

// GetCategories retrieves a paginated list of categories, optionally
// filtered by type.
func (s *categoryService) GetCategories(categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{})
	if categoryType != nil {
		base = base.Where("type = ?", *categoryType)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, storeError(err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&categories).Error; err != nil {
		return nil, storeError(err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID.
func (s *categoryService) GetCategoryByID(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, storeError(err)
	}
	return &category, nil
}

// UpdateCategory renames a category. The type tag is immutable: records
// already classified under it rely on the income/expense split.
func (s *categoryService) UpdateCategory(categoryID uint, name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(category).Update("name", name).Error; err != nil {
		return nil, storeError(err)
	}

	return category, nil
}

// DeleteCategory soft-deletes a category. Categories still referenced by
// incomes or expenses are refused.
func (s *categoryService) DeleteCategory(categoryID uint) error {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return err
	}

	var refs int64
	if err := s.db.Model(&models.Income{}).Where("category_id = ?", categoryID).Count(&refs).Error; err != nil {
		return storeError(err)
	}
	if refs == 0 {
		if err := s.db.Model(&models.Expense{}).Where("category_id = ?", categoryID).Count(&refs).Error; err != nil {
			return storeError(err)
		}
	}
	if refs > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return storeError(err)
	}
	return nil
}
