package handlers

import (
	"net/http"

	"eduway/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC *usecase.ProfileUseCase
}

func NewProfileHandler(profileUC *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profileUC: profileUC}
}

// GET /api/profile/:username
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileUC.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PUT /api/profile/:username
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var input usecase.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileUC.CreateOrUpdateProfile(c.Request.Context(), c.Param("username"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DELETE /api/profile/:username
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if err := h.profileUC.DeleteProfile(c.Request.Context(), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted successfully"})
}

// POST /api/profile/:username/save-learning-path
// Body is the ordered topic list.
func (h *ProfileHandler) SaveLearningPath(c *gin.Context) {
	var topics []string
	if err := c.ShouldBindJSON(&topics); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileUC.AddLearningPath(c.Request.Context(), c.Param("username"), topics)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// POST /api/profile/:username/complete-topic
func (h *ProfileHandler) CompleteTopic(c *gin.Context) {
	var req struct {
		Topic          string `json:"topic" binding:"required"`
		LearningPathID string `json:"learningPathId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.profileUC.CompleteTopic(c.Request.Context(), c.Param("username"), req.Topic, req.LearningPathID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/profile/:username/badges
func (h *ProfileHandler) GetBadges(c *gin.Context) {
	badges, err := h.profileUC.ListBadges(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, badges)
}

// GET /api/profile/:username/learning-progress
func (h *ProfileHandler) GetLearningProgress(c *gin.Context) {
	progress, err := h.profileUC.LearningProgress(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
