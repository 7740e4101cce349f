package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthtrack/backend/internal/database"
	"healthtrack/backend/internal/models"
)

// region --- DTOs ---

// PrivateUserResponse defines the authenticated user's own profile.
type PrivateUserResponse struct {
	ID       uint    `json:"id" example:"1"`
	Email    string  `json:"email" example:"test@example.com"`
	Account  string  `json:"account" example:"testuser"`
	Name     string  `json:"name"`
	Birthday string  `json:"birthday"`
	Height   float64 `json:"height"`
	Weight   float64 `json:"weight"`
	Phone    string  `json:"phone"`
	Gender   *bool   `json:"gender"`
}

// UpdateUserInput defines the updatable profile fields.
type UpdateUserInput struct {
	Name     *string  `json:"name"`
	Birthday *string  `json:"birthday"`
	Height   *float64 `json:"height"`
	Weight   *float64 `json:"weight"`
	Phone    *string  `json:"phone"`
	Gender   *bool    `json:"gender"`
}

// PushTokenInput carries an Expo push token.
type PushTokenInput struct {
	PushToken string `json:"push_token" binding:"required"`
}

// endregion

func buildPrivateUserResponse(user models.User) PrivateUserResponse {
	return PrivateUserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Account:  user.Account,
		Name:     user.Name,
		Birthday: user.Birthday,
		Height:   user.Height,
		Weight:   user.Weight,
		Phone:    user.Phone,
		Gender:   user.Gender,
	}
}

// GetMe godoc
// @Summary      Get current user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateUserInput true "Profile fields"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID, _ := c.Get("userID")
	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Birthday != nil {
		updates["birthday"] = *input.Birthday
	}
	if input.Height != nil {
		updates["height"] = *input.Height
	}
	if input.Weight != nil {
		updates["weight"] = *input.Weight
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Gender != nil {
		updates["gender"] = *input.Gender
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// RegisterPushToken godoc
// @Summary      Register a push token
// @Description  Stores the caller's Expo push token for best-effort notifications.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PushTokenInput true "Push token"
// @Success      200  {object}  map[string]string "{"message": "push token registered"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/push-token [post]
func RegisterPushToken(c *gin.Context) {
	var input PushTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID, _ := c.Get("userID")
	err := database.DB.Model(&models.User{}).
		Where("id = ?", viewerID.(uint)).
		Update("push_token", input.PushToken).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store push token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "push token registered"})
}
