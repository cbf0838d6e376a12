package handlers

import (
	"net/http"

	"github.com/gocool94/innnov-prod/internal/auth"
	"github.com/gocool94/innnov-prod/internal/models"
	"github.com/gocool94/innnov-prod/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles reviewer assignment and platform administration
type AdminHandler struct {
	userService       *services.UserService
	authService       *services.AuthService
	assignmentService *services.AssignmentService
	statsService      *services.StatsService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	userService *services.UserService,
	authService *services.AuthService,
	assignmentService *services.AssignmentService,
	statsService *services.StatsService,
) *AdminHandler {
	return &AdminHandler{
		userService:       userService,
		authService:       authService,
		assignmentService: assignmentService,
		statsService:      statsService,
	}
}

// AdminMiddleware restricts a route group to admin accounts. Runs after the
// auth middleware has resolved the caller.
func (h *AdminHandler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		user, err := h.userService.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		if !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AssignReviewer binds a reviewer to an idea
func (h *AdminHandler) AssignReviewer(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idea ID"})
		return
	}

	var req models.AssignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	idea, err := h.assignmentService.Assign(c.Request.Context(), ideaID, req.ReviewerEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewIdeaResponse(*idea))
}

// UnassignReviewer removes the reviewer from an idea
func (h *AdminHandler) UnassignReviewer(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idea ID"})
		return
	}

	if err := h.assignmentService.Unassign(c.Request.Context(), ideaID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviewer unassigned",
	})
}

// ListUsers returns all user accounts
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// CreateUser provisions a new account
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetStats returns the most recent platform totals snapshot
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.Latest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
