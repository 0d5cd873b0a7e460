package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// UserHandler handles profile and account-data requests for the
// authenticated user.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest represents the profile update payload. Omitted
// fields are left untouched.
type UpdateProfileRequest struct {
	Name              *string `json:"name" binding:"omitempty,max=100"`
	PreferredCurrency *string `json:"preferred_currency" binding:"omitempty,iso4217"`
}

// ChangePasswordRequest represents the password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":                 user.ID,
			"email":              user.Email,
			"name":               user.Name,
			"preferred_currency": user.PreferredCurrency,
			"created_at":         user.CreatedAt,
		},
	})
}

// UpdateProfile updates the user's display name and preferred currency
// @Summary     Update user profile
// @Description Update the authenticated user's display name and/or preferred currency
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields to update"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.ProfileUpdateFields{
		Name:              req.Name,
		PreferredCurrency: req.PreferredCurrency,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":                 user.ID,
			"email":              user.Email,
			"name":               user.Name,
			"preferred_currency": user.PreferredCurrency,
		},
	})
}

// ChangePassword changes the user's password
// @Summary     Change password
// @Description Change the authenticated user's password
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Current and new password"
// @Success     200 {object} MessageResponse "Password updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Wrong current password"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// ResetData deletes all of the user's data
// @Summary     Reset user data
// @Description Delete all of the authenticated user's transactions, categories, and accounts. The user record and default categories survive.
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Data reset"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile/reset-data [delete]
func (h *UserHandler) ResetData(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.ResetUserData(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User data reset successfully"})
}
