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

// MedicalProfileResponse is the caller's standing medical information.
type MedicalProfileResponse struct {
	ID                uint   `json:"id"`
	UserID            uint   `json:"user_id"`
	DiabetesType      int    `json:"diabetes_type" example:"3"`
	OAD               bool   `json:"oad"`
	Insulin           bool   `json:"insulin"`
	AntiHypertensives bool   `json:"anti_hypertensives"`
	UpdatedAt         string `json:"updated_at"`
}

// UpdateMedicalProfileInput defines the updatable medical fields.
type UpdateMedicalProfileInput struct {
	DiabetesType      *int  `json:"diabetes_type"`
	OAD               *bool `json:"oad"`
	Insulin           *bool `json:"insulin"`
	AntiHypertensives *bool `json:"anti_hypertensives"`
}

// endregion

func buildMedicalProfileResponse(userID uint, profile models.MedicalProfile) MedicalProfileResponse {
	resp := MedicalProfileResponse{
		ID:                profile.ID,
		UserID:            userID,
		DiabetesType:      int(profile.DiabetesType),
		OAD:               profile.OAD,
		Insulin:           profile.Insulin,
		AntiHypertensives: profile.AntiHypertensives,
	}
	if !profile.UpdatedAt.IsZero() {
		resp.UpdatedAt = profile.UpdatedAt.Format(recordTimeLayout)
	}
	return resp
}

// GetMedicalProfile godoc
// @Summary      Get current user's medical profile
// @Description  Returns the caller's medical information; defaults when nothing has been stored yet.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MedicalProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/medical [get]
func GetMedicalProfile(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	var profile models.MedicalProfile
	err := database.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve medical profile"})
		return
	}

	c.JSON(http.StatusOK, buildMedicalProfileResponse(userID, profile))
}

// UpdateMedicalProfile godoc
// @Summary      Update current user's medical profile
// @Description  Creates or updates the caller's medical information.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateMedicalProfileInput true "Medical fields"
// @Success      200  {object}  MedicalProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/medical [put]
func UpdateMedicalProfile(c *gin.Context) {
	var input UpdateMedicalProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.DiabetesType != nil && !models.DiabetesType(*input.DiabetesType).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "diabetes_type must be between 0 and 4"})
		return
	}

	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	var profile models.MedicalProfile
	err := database.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.MedicalProfile{UserID: userID}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve medical profile"})
		return
	}

	if input.DiabetesType != nil {
		profile.DiabetesType = models.DiabetesType(*input.DiabetesType)
	}
	if input.OAD != nil {
		profile.OAD = *input.OAD
	}
	if input.Insulin != nil {
		profile.Insulin = *input.Insulin
	}
	if input.AntiHypertensives != nil {
		profile.AntiHypertensives = *input.AntiHypertensives
	}

	if err := database.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update medical profile"})
		return
	}

	c.JSON(http.StatusOK, buildMedicalProfileResponse(userID, profile))
}
