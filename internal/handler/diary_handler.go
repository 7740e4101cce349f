package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"healthtrack/backend/internal/database"
	"healthtrack/backend/internal/models"
)

// region --- DTOs ---

// BloodSugarInput defines a blood sugar measurement.
type BloodSugarInput struct {
	Sugar      float64 `json:"sugar" binding:"required" example:"5.6"`
	TimePeriod int     `json:"timeperiod" example:"1"`
	Drug       int     `json:"drug"`
	Exercise   int     `json:"exercise"`
	RecordedAt string  `json:"recorded_at" example:"2026-08-01 08:30:00"`
}

// BloodPressureInput defines a blood pressure measurement.
type BloodPressureInput struct {
	Systolic   int    `json:"systolic" binding:"required" example:"120"`
	Diastolic  int    `json:"diastolic" binding:"required" example:"80"`
	Pulse      int    `json:"pulse" example:"72"`
	RecordedAt string `json:"recorded_at"`
}

// WeightInput defines a weight measurement.
type WeightInput struct {
	Weight     float64 `json:"weight" binding:"required" example:"68.5"`
	BMI        float64 `json:"bmi"`
	BodyFat    float64 `json:"body_fat"`
	Height     float64 `json:"height"`
	RecordedAt string  `json:"recorded_at"`
}

// DietInput defines a diet diary entry.
type DietInput struct {
	Description string   `json:"description"`
	Meal        int      `json:"meal" example:"2"`
	Tags        []string `json:"tag"`
	Image       int      `json:"image"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	RecordedAt  string   `json:"recorded_at"`
}

// DeleteRecordsInput lists record ids to delete.
type DeleteRecordsInput struct {
	RecordIDs []uint `json:"record_ids" binding:"required"`
}

// endregion

const recordTimeLayout = "2006-01-02 15:04:05"

func parseRecordedAt(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	t, err := time.Parse(recordTimeLayout, s)
	if err != nil {
		return time.Now()
	}
	return t
}

// AddBloodSugar godoc
// @Summary      Add a blood sugar record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BloodSugarInput true "Measurement"
// @Success      201  {object}  models.DiaryEntry
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /records/blood-sugar [post]
func AddBloodSugar(c *gin.Context) {
	var input BloodSugarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID, _ := c.Get("userID")
	entry := models.DiaryEntry{
		UserID:     viewerID.(uint),
		Type:       models.EntryBloodSugar,
		Sugar:      input.Sugar,
		TimePeriod: input.TimePeriod,
		Drug:       input.Drug,
		Exercise:   input.Exercise,
		RecordedAt: parseRecordedAt(input.RecordedAt),
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create record"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// AddBloodPressure godoc
// @Summary      Add a blood pressure record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BloodPressureInput true "Measurement"
// @Success      201  {object}  models.DiaryEntry
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /records/blood-pressure [post]
func AddBloodPressure(c *gin.Context) {
	var input BloodPressureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID, _ := c.Get("userID")
	entry := models.DiaryEntry{
		UserID:     viewerID.(uint),
		Type:       models.EntryBloodPressure,
		Systolic:   input.Systolic,
		Diastolic:  input.Diastolic,
		Pulse:      input.Pulse,
		RecordedAt: parseRecordedAt(input.RecordedAt),
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create record"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// AddWeight godoc
// @Summary      Add a weight record
// @Description  Stores a weight measurement; BMI is derived from height when not supplied.
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body WeightInput true "Measurement"
// @Success      201  {object}  models.DiaryEntry
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /records/weight [post]
func AddWeight(c *gin.Context) {
	var input WeightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bmi := input.BMI
	if bmi == 0 && input.Height > 0 {
		meters := input.Height / 100
		bmi = input.Weight / (meters * meters)
	}

	viewerID, _ := c.Get("userID")
	entry := models.DiaryEntry{
		UserID:     viewerID.(uint),
		Type:       models.EntryWeight,
		Weight:     input.Weight,
		BMI:        bmi,
		BodyFat:    input.BodyFat,
		RecordedAt: parseRecordedAt(input.RecordedAt),
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create record"})
		return
	}

	// Keep the profile's current weight in step with the newest record.
	database.DB.Model(&models.User{}).Where("id = ?", viewerID.(uint)).Update("weight", input.Weight)

	c.JSON(http.StatusCreated, entry)
}

// AddDiet godoc
// @Summary      Add a diet record
// @Description  Stores a diet diary entry with meal slot, tags, and location.
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body DietInput true "Diet entry"
// @Success      201  {object}  models.DiaryEntry
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /records/diet [post]
func AddDiet(c *gin.Context) {
	var input DietInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID, _ := c.Get("userID")
	entry := models.DiaryEntry{
		UserID:      viewerID.(uint),
		Type:        models.EntryDiet,
		Description: input.Description,
		Meal:        input.Meal,
		Tags:        input.Tags,
		Image:       input.Image,
		Lat:         input.Lat,
		Lng:         input.Lng,
		RecordedAt:  parseRecordedAt(input.RecordedAt),
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create record"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetRecords godoc
// @Summary      List diary records
// @Description  Returns the caller's records, optionally filtered by type, newest first.
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        type  query     string  false  "Entry type (blood_sugar, blood_pressure, weight)"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[models.DiaryEntry]
// @Failure      401  {object}  ErrorResponse
// @Router       /records [get]
func GetRecords(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	query := database.DB.Where("user_id = ?", viewerID.(uint)).Order("recorded_at DESC")
	if entryType := c.Query("type"); entryType != "" {
		query = query.Where("type = ?", entryType)
	}

	response, err := Paginate[models.DiaryEntry](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteRecords godoc
// @Summary      Delete diary records
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body DeleteRecordsInput true "Record IDs"
// @Success      200  {object}  map[string]string "{"message": "Success"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /records [delete]
func DeleteRecords(c *gin.Context) {
	var input DeleteRecordsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.RecordIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide record IDs to delete"})
		return
	}

	viewerID, _ := c.Get("userID")
	result := database.DB.Where("user_id = ? AND id IN ?", viewerID.(uint), input.RecordIDs).Delete(&models.DiaryEntry{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete records"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No matching records found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success"})
}
