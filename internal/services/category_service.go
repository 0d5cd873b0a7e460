package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new user-owned category. System defaults are
// seeded by migration and never created through this path.
func (s *categoryService) CreateCategory(userID, name string, categoryType models.CategoryType, icon string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	// (owner, name, type) is unique
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND LOWER(name) = ? AND type = ?", userID, strings.ToLower(name), categoryType).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID:    &userID,
		Name:      name,
		Type:      categoryType,
		Icon:      icon,
		IsDefault: false,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetVisibleCategories retrieves a paginated list of the categories visible
// to a user: system defaults plus the user's own.
func (s *categoryService) GetVisibleCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Category{}).Where("is_default = ? OR user_id = ?", true, userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Scopes(pagination.Paginate(page)).
		Order("type ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category visible to the user: one of their own
// or a system default. Categories owned by other users report not-found.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND (is_default = ? OR user_id = ?)", categoryID, true, userID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a user-owned category. Defaults are immutable.
// Only non-nil fields are applied.
func (s *categoryService) UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if category.IsDefault {
		return nil, apperrors.ErrDefaultCategory
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.Type != nil {
		updates["type"] = *fields.Type
	}
	if fields.Icon != nil {
		updates["icon"] = *fields.Icon
	}

	if len(updates) > 0 {
		name := category.Name
		if fields.Name != nil && *fields.Name != "" {
			name = *fields.Name
		}
		categoryType := category.Type
		if fields.Type != nil {
			categoryType = *fields.Type
		}

		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("user_id = ? AND LOWER(name) = ? AND type = ? AND id <> ?",
				userID, strings.ToLower(name), categoryType, categoryID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateCategory
		}

		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory deletes a user-owned category. Deletion is refused for
// defaults and for categories referenced by any transaction.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	if category.IsDefault {
		return apperrors.ErrDefaultCategory
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
