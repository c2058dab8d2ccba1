package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/internal/utils"
)

type SubmitProjectRequest struct {
	ProjectID string `json:"project_id" binding:"required,uuid"`
}

func (h *Handler) RegisterForEvent(ctx *gin.Context) {
	profile, err := utils.GetCurrentProfile(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registration, err := h.Events.Register(ctx.Request.Context(), eventID, profile.ID)

	if err != nil {
		respondError(ctx, err, "Failed to register for event")
		return
	}

	ctx.JSON(http.StatusOK, registration)
}

func (h *Handler) SubmitProject(ctx *gin.Context) {
	profile, err := utils.GetCurrentProfile(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body SubmitProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	submission, err := h.Events.SubmitProject(ctx.Request.Context(), eventID, profile.ID, body.ProjectID)

	if err != nil {
		respondError(ctx, err, "Failed to submit project")
		return
	}

	ctx.JSON(http.StatusCreated, submission)
}
