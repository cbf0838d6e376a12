package handlers

import (
	"net/http"
	"strings"

	"github.com/gocool94/innnov-prod/internal/auth"
	"github.com/gocool94/innnov-prod/internal/models"
	"github.com/gocool94/innnov-prod/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdeaHandler handles idea lifecycle endpoints
type IdeaHandler struct {
	ideaService *services.IdeaService
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(ideaService *services.IdeaService) *IdeaHandler {
	return &IdeaHandler{
		ideaService: ideaService,
	}
}

func ideaResponses(ideas []models.Idea) []models.IdeaResponse {
	responses := make([]models.IdeaResponse, 0, len(ideas))
	for _, idea := range ideas {
		responses = append(responses, models.NewIdeaResponse(idea))
	}
	return responses
}

// SubmitIdea creates a new idea for the authenticated user
func (h *IdeaHandler) SubmitIdea(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.SubmitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	idea, err := h.ideaService.Submit(c.Request.Context(), email, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewIdeaResponse(*idea))
}

// GetIdeas lists all ideas, newest first. With ?mine=true only the caller's
// own submissions are returned.
func (h *IdeaHandler) GetIdeas(c *gin.Context) {
	var (
		ideas []models.Idea
		err   error
	)

	if c.Query("mine") == "true" {
		email, ok := auth.GetEmail(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		ideas, err = h.ideaService.ListBySubmitter(c.Request.Context(), email)
	} else {
		ideas, err = h.ideaService.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ideas": ideaResponses(ideas),
		"count": len(ideas),
	})
}

// GetIdea retrieves a single idea by ID
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idea ID"})
		return
	}

	idea, err := h.ideaService.Get(c.Request.Context(), ideaID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewIdeaResponse(*idea))
}

// UpdateIdea applies field edits to an idea
func (h *IdeaHandler) UpdateIdea(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idea ID"})
		return
	}

	var req models.UpdateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	idea, err := h.ideaService.Update(c.Request.Context(), email, ideaID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewIdeaResponse(*idea))
}

// TransitionIdea moves an idea to its next lifecycle state
func (h *IdeaHandler) TransitionIdea(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idea ID"})
		return
	}

	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	idea, err := h.ideaService.Transition(c.Request.Context(), email, ideaID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewIdeaResponse(*idea))
}

// GetReviewIdeas resolves a reviewer's pending queue from a comma separated
// ids query parameter
func (h *IdeaHandler) GetReviewIdeas(c *gin.Context) {
	raw := c.Query("ids")
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusOK, gin.H{
			"ideas": []models.IdeaResponse{},
			"count": 0,
		})
		return
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid idea ID: " + part,
			})
			return
		}
		ids = append(ids, id)
	}

	ideas, err := h.ideaService.ListByIDs(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ideas": ideaResponses(ideas),
		"count": len(ideas),
	})
}
