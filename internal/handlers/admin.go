package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/internal/models"
	"github.com/monocle-dev/hackhub/internal/utils"
	"go.uber.org/zap"
)

type ModerationRequest struct {
	Reason string `json:"reason"`
}

// Moderate returns the handler for one moderation action (models.AuditAction*).
func (h *Handler) Moderate(action string) gin.HandlerFunc {
	apply := map[string]func(ctx context.Context, actorID, targetID, reason string) (*models.Profile, error){
		models.AuditActionBan: h.Moderator.Ban,
		models.AuditActionUnban: func(ctx context.Context, actorID, targetID, _ string) (*models.Profile, error) {
			return h.Moderator.Unban(ctx, actorID, targetID)
		},
		models.AuditActionHide: h.Moderator.Hide,
		models.AuditActionUnhide: func(ctx context.Context, actorID, targetID, _ string) (*models.Profile, error) {
			return h.Moderator.Unhide(ctx, actorID, targetID)
		},
	}[action]

	if apply == nil {
		panic("unknown moderation action " + action)
	}

	return func(ctx *gin.Context) {
		actor, err := utils.GetCurrentProfile(ctx)

		if err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		targetID, err := utils.GetProfileID(ctx)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var body ModerationRequest

		if ctx.Request.ContentLength > 0 {
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}

		target, err := apply(ctx.Request.Context(), actor.ID, targetID, body.Reason)

		if err != nil {
			respondError(ctx, err, "Failed to apply moderation")
			return
		}

		if err := h.Discord.NotifyModeration(ctx.Request.Context(), action, *actor, *target, body.Reason); err != nil {
			utils.Logger(ctx).Warn("failed to notify Discord", zap.String("action", action), zap.Error(err))
		}

		ctx.JSON(http.StatusOK, gin.H{"profile": toProfileResponse(target)})
	}
}
