package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/internal/metrics"
	"github.com/monocle-dev/hackhub/internal/services"
	"github.com/monocle-dev/hackhub/internal/types"
	"github.com/monocle-dev/hackhub/internal/utils"
	"go.uber.org/zap"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"

	maxWebhookBody = 1 << 20
)

type clerkUserData struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type clerkEvent struct {
	Type string        `json:"type"`
	Data clerkUserData `json:"data"`
}

func (h *Handler) webhookResponse(ctx *gin.Context, eventType string, status int, body gin.H) {
	if eventType == "" {
		eventType = "unknown"
	}
	metrics.WebhookDeliveries.WithLabelValues(eventType, strconv.Itoa(status)).Inc()
	ctx.JSON(status, body)
}

// ClerkWebhook keeps profiles in step with the identity provider. A non-2xx
// response makes the provider redeliver.
func (h *Handler) ClerkWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		h.webhookResponse(ctx, "", http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	if err := h.Webhook.Verify(payload, ctx.Request.Header); err != nil {
		utils.Logger(ctx).Warn("webhook signature rejected", zap.Error(err))
		h.webhookResponse(ctx, "", http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var event clerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		h.webhookResponse(ctx, "", http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	log := utils.Logger(ctx).With(zap.String("event", event.Type), zap.String("clerk_id", event.Data.ID))

	switch event.Type {
	case EventUserCreated, EventUserUpdated:
		if event.Data.ID == "" {
			h.webhookResponse(ctx, event.Type, http.StatusBadRequest, gin.H{"error": "Missing user id"})
			return
		}

		profile, err := h.Provisioner.EnsureProfile(ctx.Request.Context(), &services.Identity{
			ExternalID: event.Data.ID,
			FirstName:  event.Data.FirstName,
			LastName:   event.Data.LastName,
			Username:   event.Data.Username,
		})
		if err != nil {
			log.Error("failed to provision profile", zap.Error(err))
			h.webhookResponse(ctx, event.Type, http.StatusInternalServerError, gin.H{"error": "Failed to provision profile"})
			return
		}

		h.webhookResponse(ctx, event.Type, http.StatusOK, gin.H{"profile_id": profile.ID})

	case EventUserDeleted:
		h.eradicate(ctx, log, event)

	default:
		h.webhookResponse(ctx, event.Type, http.StatusOK, gin.H{"message": "Event ignored"})
	}
}

func (h *Handler) eradicate(ctx *gin.Context, log *zap.Logger, event clerkEvent) {
	if event.Data.ID == "" {
		h.webhookResponse(ctx, event.Type, http.StatusBadRequest, gin.H{"error": "Missing user id"})
		return
	}

	profile, err := h.Provisioner.FindByExternalID(ctx.Request.Context(), event.Data.ID)
	if err != nil {
		log.Error("failed to look up profile", zap.Error(err))
		h.webhookResponse(ctx, event.Type, http.StatusInternalServerError, gin.H{"error": "Failed to look up profile"})
		return
	}

	if profile == nil {
		h.webhookResponse(ctx, event.Type, http.StatusOK, gin.H{"message": "Profile already absent"})
		return
	}

	removal, err := h.Eradicator.Eradicate(ctx.Request.Context(), profile.ID)
	if err != nil {
		log.Error("profile cascade delete failed", zap.String("profile_id", profile.ID), zap.Error(err))
		h.webhookResponse(ctx, event.Type, http.StatusInternalServerError, gin.H{"error": "Failed to delete profile"})
		return
	}

	projectIDs := removal.ProjectIDs

	for _, projectID := range projectIDs {
		h.Hub.Broadcast(projectID, types.RealtimeMessage{
			Type:    types.MessageProjectDeleted,
			Message: "Project owner account was deleted",
		})
	}

	log.Info("profile eradicated",
		zap.String("profile_id", profile.ID),
		zap.String("name", profile.Name),
		zap.Int("projects_removed", len(projectIDs)),
	)

	if err := h.Discord.NotifyProfileDeleted(ctx.Request.Context(), *profile, len(projectIDs)); err != nil {
		log.Warn("failed to notify Discord", zap.Error(err))
	}

	h.webhookResponse(ctx, event.Type, http.StatusOK, gin.H{
		"profile_id":       profile.ID,
		"projects_removed": len(projectIDs),
	})
}
