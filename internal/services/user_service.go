package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/validator"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user
func (s *userService) CreateUser(email, password, name, preferredCurrency string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	if preferredCurrency == "" {
		preferredCurrency = "USD"
	}
	preferredCurrency = strings.ToUpper(preferredCurrency)
	if !validator.IsValidCurrency(preferredCurrency) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid preferred currency")
	}

	// Check if user with email exists
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:             strings.ToLower(email),
		Password:          string(hashedPassword),
		Name:              name,
		PreferredCurrency: preferredCurrency,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// UpdateProfile applies the non-nil profile fields to the user record.
func (s *userService) UpdateProfile(userID string, fields ProfileUpdateFields) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.PreferredCurrency != nil {
		currency := strings.ToUpper(*fields.PreferredCurrency)
		if !validator.IsValidCurrency(currency) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid preferred currency")
		}
		updates["preferred_currency"] = currency
	}

	if len(updates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no update information provided")
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one. The new password must differ from the current one.
func (s *userService) ChangePassword(userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "current password and new password are required")
	}
	if len(newPassword) < 8 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "new password must be at least 8 characters long")
	}
	if currentPassword == newPassword {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "new password cannot be the same as the current password")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !s.VerifyPassword(user, currentPassword) {
		return apperrors.ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("password", string(hashedPassword)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ResetUserData deletes all of the user's transactions, then their own
// categories, then their accounts, in one atomic unit. The user record and
// system default categories survive.
func (s *userService) ResetUserData(userID string) error {
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ? AND is_default = ?", userID, false).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Account{}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// StoreRefreshTokenHash persists the hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token_hash", tokenHash).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for the user.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}
