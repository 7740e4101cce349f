package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"healthtrack/backend/internal/database"
	"healthtrack/backend/internal/models"
)

// GetNews godoc
// @Summary      List news
// @Description  Returns published announcements, newest first.
// @Tags         news
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[models.News]
// @Failure      401  {object}  ErrorResponse
// @Router       /news [get]
func GetNews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	query := database.DB.Order("published_at DESC")
	response, err := Paginate[models.News](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve news"})
		return
	}

	c.JSON(http.StatusOK, response)
}
