package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/internal/models"
	"github.com/monocle-dev/hackhub/internal/realtime"
	"github.com/monocle-dev/hackhub/internal/services"
	"github.com/monocle-dev/hackhub/internal/types"
	"github.com/monocle-dev/hackhub/internal/utils"
	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler carries the services behind the HTTP API.
type Handler struct {
	Provisioner *services.Provisioner
	Eradicator  *services.Eradicator
	Projects    *services.ProjectService
	Events      *services.EventService
	Moderator   *services.Moderator
	Discord     *services.DiscordNotifier
	Hub         *realtime.Hub
	DB          *gorm.DB

	// Webhook verifies identity-provider deliveries.
	Webhook *svix.Webhook

	AllowedOrigins []string
}

func respondError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrEventNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotAdmin):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSelfModeration),
		errors.Is(err, services.ErrCannotInviteSelf):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInviteNotOpen),
		errors.Is(err, services.ErrAlreadyInvited),
		errors.Is(err, services.ErrAlreadyMember):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		utils.Logger(ctx).Error(fallback, zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func toProfileResponse(p *models.Profile) types.ProfileResponse {
	return types.ProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
		Role:      p.Role,
		IsBanned:  p.IsBanned,
		IsHidden:  p.IsHidden,
	}
}

func toProjectResponse(p *models.Project) types.ProjectResponse {
	return types.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		RepoURL:     p.RepoURL,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
	}
}
