package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthtrack/backend/internal/database"
	"healthtrack/backend/internal/models"
)

// region --- DTOs ---

// A1CInput defines a glycated-hemoglobin measurement.
type A1CInput struct {
	Value      float64 `json:"a1cs" binding:"required" example:"6.5"`
	RecordDate string  `json:"record_date" binding:"required" example:"2026-08-01"`
	Message    string  `json:"message"`
}

// A1CResponse is one stored measurement.
type A1CResponse struct {
	ID         uint    `json:"id"`
	UserID     uint    `json:"user_id"`
	Value      float64 `json:"a1cs"`
	RecordDate string  `json:"record_date"`
	Message    string  `json:"message,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// endregion

const a1cDateLayout = "2006-01-02"

// validA1CValue bounds a plausible HbA1c percentage.
func validA1CValue(v float64) bool {
	return v > 0 && v <= 20
}

func parseA1CDate(s string) (time.Time, error) {
	return time.Parse(a1cDateLayout, s)
}

// AddA1C godoc
// @Summary      Add an HbA1c record
// @Description  Stores an HbA1c measurement. A second submission for the same date overwrites the stored value.
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body A1CInput true "Measurement"
// @Success      201  {object}  map[string]string "{"message": "Success"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /records/a1c [post]
func AddA1C(c *gin.Context) {
	var input A1CInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validA1CValue(input.Value) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid HbA1c value"})
		return
	}

	recordDate, err := parseA1CDate(input.RecordDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record_date must be formatted YYYY-MM-DD"})
		return
	}

	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	var existing models.A1CRecord
	err = database.DB.Where("user_id = ? AND record_date = ?", userID, recordDate).First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{"value": input.Value}
		if input.Message != "" {
			updates["message"] = input.Message
		}
		if err := database.DB.Model(&existing).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update HbA1c record"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Success"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check HbA1c records"})
		return
	}

	record := models.A1CRecord{
		UserID:     userID,
		Value:      input.Value,
		RecordDate: recordDate,
		Message:    input.Message,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add HbA1c record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Success"})
}

// GetA1CRecords godoc
// @Summary      List HbA1c records
// @Description  Returns the caller's HbA1c measurements, newest record date first.
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   A1CResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /records/a1c [get]
func GetA1CRecords(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var records []models.A1CRecord
	err := database.DB.Where("user_id = ?", viewerID.(uint)).
		Order("record_date DESC").
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve HbA1c records"})
		return
	}

	responses := make([]A1CResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, A1CResponse{
			ID:         r.ID,
			UserID:     r.UserID,
			Value:      r.Value,
			RecordDate: r.RecordDate.Format(a1cDateLayout),
			Message:    r.Message,
			CreatedAt:  r.CreatedAt.Format(recordTimeLayout),
			UpdatedAt:  r.UpdatedAt.Format(recordTimeLayout),
		})
	}

	c.JSON(http.StatusOK, responses)
}
