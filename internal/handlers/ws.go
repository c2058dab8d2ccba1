package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/monocle-dev/hackhub/internal/utils"
	"go.uber.org/zap"
)

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range h.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

// WebSocket subscribes an owner or member to their project's feed.
func (h *Handler) WebSocket(ctx *gin.Context) {
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

	ok, err := h.Projects.IsParticipant(ctx.Request.Context(), profile.ID, projectID)

	if err != nil {
		respondError(ctx, err, "Failed to load project")
		return
	}

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		utils.Logger(ctx).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.Hub.Serve(projectID, conn)
}
