package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"healthtrack/backend/internal/database"
	"healthtrack/backend/internal/models"
	"healthtrack/backend/internal/relationship"
)

// region --- DTOs ---

// ShareRecordInput marks one diary record as shared with a friend category.
type ShareRecordInput struct {
	RecordID     uint `json:"record_id" binding:"required" example:"12"`
	RelationType *int `json:"relation_type" binding:"required" example:"1"`
}

// SharedRecordResponse is one record visible to the caller through sharing.
type SharedRecordResponse struct {
	ShareID  uint              `json:"share_id"`
	OwnerID  uint              `json:"owner_id"`
	Owner    string            `json:"owner"`
	Record   models.DiaryEntry `json:"record"`
	SharedAt string            `json:"shared_at"`
}

// endregion

// ShareHandler exposes record sharing. It leans on the relationship service
// for friendship checks; share rows themselves are plain CRUD.
type ShareHandler struct {
	svc *relationship.Service
}

func NewShareHandler(svc *relationship.Service) *ShareHandler {
	return &ShareHandler{svc: svc}
}

// ShareRecord godoc
// @Summary      Share a diary record
// @Description  Makes one of the caller's records visible to a friend category. Requires at least one accepted friend in that category.
// @Tags         sharing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ShareRecordInput true "Share request"
// @Success      201  {object}  map[string]string "{"message": "record shared"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /share [post]
func (h *ShareHandler) ShareRecord(c *gin.Context) {
	var input ShareRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat := models.RelationCategory(*input.RelationType)
	if !cat.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "relation_type must be 0 (medical), 1 (family), or 2 (peer)"})
		return
	}

	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	var record models.DiaryEntry
	if err := database.DB.Where("id = ? AND user_id = ?", input.RecordID, userID).First(&record).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	hasFriend, err := h.svc.HasFriendInCategory(c.Request.Context(), userID, cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check friendships"})
		return
	}
	if !hasFriend {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No friends in this category to share with"})
		return
	}

	var existing models.ShareRecord
	err = database.DB.Where("user_id = ? AND record_id = ? AND category = ?", userID, input.RecordID, cat).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Record already shared with this category"})
		return
	}

	share := models.ShareRecord{
		UserID:   userID,
		RecordID: input.RecordID,
		Category: cat,
		SharedAt: time.Now(),
	}
	if err := database.DB.Create(&share).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "record shared"})
}

// GetSharedRecords godoc
// @Summary      List records shared with me
// @Description  Returns records that the caller's accepted friends in the given category have shared.
// @Tags         sharing
// @Produce      json
// @Security     BearerAuth
// @Param        relation_type  query  int  true  "Category (0, 1, 2)"
// @Success      200  {array}   SharedRecordResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /share [get]
func (h *ShareHandler) GetSharedRecords(c *gin.Context) {
	relationType, err := strconv.Atoi(c.Query("relation_type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "relation_type query parameter required"})
		return
	}
	cat := models.RelationCategory(relationType)
	if !cat.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "relation_type must be 0 (medical), 1 (family), or 2 (peer)"})
		return
	}

	viewerID, _ := c.Get("userID")
	friendIDs, err := h.svc.FriendIDs(c.Request.Context(), viewerID.(uint), cat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve friends"})
		return
	}

	responses := []SharedRecordResponse{}
	if len(friendIDs) == 0 {
		c.JSON(http.StatusOK, responses)
		return
	}

	var shares []models.ShareRecord
	err = database.DB.
		Where("user_id IN ? AND category = ?", friendIDs, cat).
		Order("shared_at DESC").
		Preload("User").
		Preload("Record").
		Find(&shares).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shared records"})
		return
	}

	for _, s := range shares {
		// Skip rows whose owner or record vanished.
		if s.User.ID == 0 || s.Record.ID == 0 {
			continue
		}
		responses = append(responses, SharedRecordResponse{
			ShareID:  s.ID,
			OwnerID:  s.User.ID,
			Owner:    s.User.Name,
			Record:   s.Record,
			SharedAt: s.SharedAt.Format(recordTimeLayout),
		})
	}

	c.JSON(http.StatusOK, responses)
}
