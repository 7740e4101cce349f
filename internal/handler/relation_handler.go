package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"healthtrack/backend/internal/database"
	"healthtrack/backend/internal/invite"
	"healthtrack/backend/internal/models"
	"healthtrack/backend/internal/relationship"
)

// region --- DTOs ---

// SendInviteInput defines the payload for sending a friend invitation.
type SendInviteInput struct {
	InviteCode   string `json:"invite_code" binding:"required" example:"00422294"`
	RelationType *int   `json:"relation_type" binding:"required" example:"1"`
}

// RemoveFriendsInput defines the payload for removing friend groups.
type RemoveFriendsInput struct {
	FriendIDs []uint `json:"friend_ids" binding:"required"`
}

// InviteCodeResponse carries a user's invite code.
type InviteCodeResponse struct {
	InviteCode string `json:"invite_code" example:"00422294"`
}

// endregion

// RelationHandler exposes the friend-relationship operations. The service
// owns every invariant; this layer only translates HTTP.
type RelationHandler struct {
	svc *relationship.Service
}

func NewRelationHandler(svc *relationship.Service) *RelationHandler {
	return &RelationHandler{svc: svc}
}

// respondRelationError maps a service error onto an HTTP status.
func respondRelationError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch relationship.KindOf(err) {
	case relationship.KindNotFound:
		status = http.StatusNotFound
	case relationship.KindValidation:
		status = http.StatusBadRequest
	case relationship.KindConflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": relationship.CodeOf(err)})
}

// GetInviteCode godoc
// @Summary      Get my invite code
// @Description  Returns the caller's stable 8-digit invite code, issuing and caching it on first use.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  InviteCodeResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend/code [get]
func (h *RelationHandler) GetInviteCode(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.InviteCode == "" {
		code := invite.Issue(user.ID)
		// The code is recomputable, so a failed cache write is not fatal.
		database.DB.Model(&user).Update("invite_code", code)
		user.InviteCode = code
	}

	c.JSON(http.StatusOK, InviteCodeResponse{InviteCode: user.InviteCode})
}

// SendInvite godoc
// @Summary      Send friend invitation
// @Description  Sends a friend invitation to the owner of the given invite code.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendInviteInput true "Invitation"
// @Success      200  {object}  map[string]string "{"message": "friend invitation sent successfully"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /friend/send [post]
func (h *RelationHandler) SendInvite(c *gin.Context) {
	var input SendInviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := c.GetString("email")
	err := h.svc.Send(c.Request.Context(), email, input.InviteCode, models.RelationCategory(*input.RelationType))
	if err != nil {
		respondRelationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "friend invitation sent successfully"})
}

// AcceptInvite godoc
// @Summary      Accept friend invitation
// @Description  Accepts a pending invitation addressed to the caller. Repeating the call is safe.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Invitation ID"
// @Success      200  {object}  map[string]string "{"message": "friend invitation accepted"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /friend/{id}/accept [get]
func (h *RelationHandler) AcceptInvite(c *gin.Context) {
	edgeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation ID"})
		return
	}

	email := c.GetString("email")
	outcome, err := h.svc.Accept(c.Request.Context(), email, uint(edgeID))
	if err != nil {
		respondRelationError(c, err)
		return
	}

	if outcome == relationship.OutcomeAlreadyAccepted {
		c.JSON(http.StatusOK, gin.H{"message": "friend invitation already accepted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend invitation accepted"})
}

// RefuseInvite godoc
// @Summary      Refuse friend invitation
// @Description  Rejects a pending invitation addressed to the caller.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Invitation ID"
// @Success      200  {object}  map[string]string "{"message": "invitation rejected"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend/{id}/refuse [get]
func (h *RelationHandler) RefuseInvite(c *gin.Context) {
	edgeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation ID"})
		return
	}

	email := c.GetString("email")
	if err := h.svc.Refuse(c.Request.Context(), email, uint(edgeID)); err != nil {
		respondRelationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invitation rejected"})
}

// GetRequests godoc
// @Summary      List incoming friend requests
// @Description  Returns the caller's pending incoming invitations, newest first.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   relationship.IncomingRequest
// @Failure      401  {object}  ErrorResponse
// @Router       /friend/requests [get]
func (h *RelationHandler) GetRequests(c *gin.Context) {
	requests, err := h.svc.ListIncoming(c.Request.Context(), c.GetString("email"))
	if err != nil {
		respondRelationError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetResults godoc
// @Summary      List outgoing invitation results
// @Description  Returns the caller's sent invitations that are unresolved or resolved but unread.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   relationship.OutgoingResult
// @Failure      401  {object}  ErrorResponse
// @Router       /friend/results [get]
func (h *RelationHandler) GetResults(c *gin.Context) {
	results, err := h.svc.ListOutgoingResults(c.Request.Context(), c.GetString("email"))
	if err != nil {
		respondRelationError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// MarkResultRead godoc
// @Summary      Mark an invitation result as read
// @Description  Marks the outcome of an invitation the caller sent as seen, removing it from the results view.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Invitation ID"
// @Success      200  {object}  map[string]string "{"message": "result marked as read"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend/{id}/read [post]
func (h *RelationHandler) MarkResultRead(c *gin.Context) {
	edgeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid result ID"})
		return
	}

	email := c.GetString("email")
	if err := h.svc.MarkResultRead(c.Request.Context(), email, uint(edgeID)); err != nil {
		respondRelationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "result marked as read"})
}

// GetFriendList godoc
// @Summary      List friends
// @Description  Returns the caller's accepted relationships with partner identity.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   relationship.Friend
// @Failure      401  {object}  ErrorResponse
// @Router       /friend/list [get]
func (h *RelationHandler) GetFriendList(c *gin.Context) {
	friends, err := h.svc.ListFriends(c.Request.Context(), c.GetString("email"))
	if err != nil {
		respondRelationError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// RemoveFriends godoc
// @Summary      Remove friend groups
// @Description  Deletes the caller's friend group entries by id. This is the coarse list operation; it does not touch relationship edges.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RemoveFriendsInput true "Group IDs"
// @Success      200  {object}  map[string]string "{"message": "Success"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friend/remove [post]
func (h *RelationHandler) RemoveFriends(c *gin.Context) {
	var input RemoveFriendsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.FriendIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide friend IDs to remove"})
		return
	}

	viewerID, _ := c.Get("userID")
	result := database.DB.Where("user_id = ? AND id IN ?", viewerID, input.FriendIDs).Delete(&models.FriendGroup{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friend"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Success"})
}
