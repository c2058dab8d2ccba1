package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func uuidParam(ctx *gin.Context, name, label string) (string, error) {
	value := ctx.Param(name)

	if value == "" {
		return "", fmt.Errorf("%s ID not found", label)
	}

	if _, err := uuid.Parse(value); err != nil {
		return "", fmt.Errorf("Invalid %s ID", label)
	}

	return value, nil
}

func GetProjectID(ctx *gin.Context) (string, error) {
	return uuidParam(ctx, "project_id", "Project")
}

func GetInviteID(ctx *gin.Context) (string, error) {
	return uuidParam(ctx, "invite_id", "Invite")
}

func GetEventID(ctx *gin.Context) (string, error) {
	return uuidParam(ctx, "event_id", "Event")
}

func GetProfileID(ctx *gin.Context) (string, error) {
	return uuidParam(ctx, "profile_id", "Profile")
}
