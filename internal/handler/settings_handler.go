package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthtrack/backend/internal/database"
	"healthtrack/backend/internal/models"
)

// region --- DTOs ---

// SettingsResponse is the caller's notification and unit preferences.
type SettingsResponse struct {
	AfterRecording     bool `json:"after_recording"`
	NoRecordingForADay bool `json:"no_recording_for_a_day"`
	OverMaxOrUnderMin  bool `json:"over_max_or_under_min"`
	AfterMeal          bool `json:"after_meal"`
	SugarUnit          bool `json:"unit_of_sugar"`
	WeightUnit         bool `json:"unit_of_weight"`
	HeightUnit         bool `json:"unit_of_height"`
}

// UpdateSettingsInput defines the updatable preference fields.
type UpdateSettingsInput struct {
	AfterRecording     *bool `json:"after_recording"`
	NoRecordingForADay *bool `json:"no_recording_for_a_day"`
	OverMaxOrUnderMin  *bool `json:"over_max_or_under_min"`
	AfterMeal          *bool `json:"after_meal"`
	SugarUnit          *bool `json:"unit_of_sugar"`
	WeightUnit         *bool `json:"unit_of_weight"`
	HeightUnit         *bool `json:"unit_of_height"`
}

// endregion

func buildSettingsResponse(s models.UserSettings) SettingsResponse {
	return SettingsResponse{
		AfterRecording:     s.AfterRecording,
		NoRecordingForADay: s.NoRecordingForADay,
		OverMaxOrUnderMin:  s.OverMaxOrUnderMin,
		AfterMeal:          s.AfterMeal,
		SugarUnit:          s.SugarUnit,
		WeightUnit:         s.WeightUnit,
		HeightUnit:         s.HeightUnit,
	}
}

// GetSettings godoc
// @Summary      Get current user's settings
// @Description  Returns the caller's preferences; all-off defaults when nothing has been stored yet.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SettingsResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/settings [get]
func GetSettings(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var settings models.UserSettings
	err := database.DB.Where("user_id = ?", viewerID.(uint)).First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings"})
		return
	}

	c.JSON(http.StatusOK, buildSettingsResponse(settings))
}

// UpdateSettings godoc
// @Summary      Update current user's settings
// @Description  Creates or updates the caller's notification and unit preferences.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateSettingsInput true "Preference fields"
// @Success      200  {object}  SettingsResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/settings [put]
func UpdateSettings(c *gin.Context) {
	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	var settings models.UserSettings
	err := database.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.UserSettings{UserID: userID}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings"})
		return
	}

	if input.AfterRecording != nil {
		settings.AfterRecording = *input.AfterRecording
	}
	if input.NoRecordingForADay != nil {
		settings.NoRecordingForADay = *input.NoRecordingForADay
	}
	if input.OverMaxOrUnderMin != nil {
		settings.OverMaxOrUnderMin = *input.OverMaxOrUnderMin
	}
	if input.AfterMeal != nil {
		settings.AfterMeal = *input.AfterMeal
	}
	if input.SugarUnit != nil {
		settings.SugarUnit = *input.SugarUnit
	}
	if input.WeightUnit != nil {
		settings.WeightUnit = *input.WeightUnit
	}
	if input.HeightUnit != nil {
		settings.HeightUnit = *input.HeightUnit
	}

	if err := database.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, buildSettingsResponse(settings))
}
