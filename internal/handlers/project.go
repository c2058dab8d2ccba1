package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/internal/types"
	"github.com/monocle-dev/hackhub/internal/utils"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	RepoURL     string `json:"repo_url"`
}

type InviteRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profile, err := utils.GetCurrentProfile(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := h.Projects.Create(ctx.Request.Context(), profile.ID, body.Name, body.Description, body.RepoURL)

	if err != nil {
		respondError(ctx, err, "Failed to create project")
		return
	}

	ctx.JSON(http.StatusCreated, toProjectResponse(project))
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	profile, err := utils.GetCurrentProfile(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := h.Projects.ListForProfile(ctx.Request.Context(), profile.ID)

	if err != nil {
		respondError(ctx, err, "Failed to retrieve projects")
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, toProjectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
	profile, err := utils.GetCurrentProfile(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Projects.Delete(ctx.Request.Context(), profile.ID, projectID); err != nil {
		respondError(ctx, err, "Failed to delete project")
		return
	}

	h.Hub.Broadcast(projectID, types.RealtimeMessage{
		Type:    types.MessageProjectDeleted,
		Message: "Project was deleted by its owner",
	})

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *Handler) InviteToProject(ctx *gin.Context) {
	profile, err := utils.GetCurrentProfile(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body InviteRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	invite, err := h.Projects.Invite(ctx.Request.Context(), profile.ID, projectID, body.RecipientID)

	if err != nil {
		respondError(ctx, err, "Failed to create invite")
		return
	}

	ctx.JSON(http.StatusCreated, types.InviteResponse{
		ID:          invite.ID,
		ProjectID:   invite.ProjectID,
		SenderID:    invite.SenderID,
		RecipientID: invite.RecipientID,
		Status:      invite.Status,
	})
}

func (h *Handler) AcceptInvite(ctx *gin.Context) {
	profile, err := utils.GetCurrentProfile(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	inviteID, err := utils.GetInviteID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.Projects.AcceptInvite(ctx.Request.Context(), profile.ID, inviteID)

	if err != nil {
		respondError(ctx, err, "Failed to accept invite")
		return
	}

	h.Hub.Broadcast(member.ProjectID, types.RealtimeMessage{
		Type:    types.MessageMemberJoined,
		Message: profile.Name + " joined the project",
	})

	ctx.JSON(http.StatusOK, types.MemberResponse{
		ID:        member.ID,
		ProjectID: member.ProjectID,
		ProfileID: member.ProfileID,
		Role:      member.Role,
		InviteID:  member.InviteID,
	})
}
