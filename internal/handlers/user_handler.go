package handlers

import (
	"net/http"
	"strconv"

	"github.com/gocool94/innnov-prod/internal/auth"
	"github.com/gocool94/innnov-prod/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user profile and dashboard endpoints
type UserHandler struct {
	userService    *services.UserService
	summaryService *services.SummaryService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, summaryService *services.SummaryService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		summaryService: summaryService,
	}
}

// GetProfile returns the authenticated user's record
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetSummary returns the dashboard status-card counters for the caller
func (h *UserHandler) GetSummary(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	summary, err := h.summaryService.SummarizeUser(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetTopSubmitters returns the bean leaderboard. An optional limit query
// parameter overrides the default size.
func (h *UserHandler) GetTopSubmitters(c *gin.Context) {
	limit := services.DefaultLeaderboardSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	ranks, err := h.summaryService.TopSubmitterRanks(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"top_submitters": ranks,
	})
}
