package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/internal/logger"
	"github.com/monocle-dev/hackhub/internal/models"
	"github.com/monocle-dev/hackhub/internal/services"
	"github.com/monocle-dev/hackhub/internal/types"
	"go.uber.org/zap"
)

func GetIdentity(ctx *gin.Context) (*services.Identity, error) {
	value, exists := ctx.Get(types.ContextIdentityKey)

	if !exists {
		return nil, fmt.Errorf("User not authenticated")
	}

	identity, ok := value.(*services.Identity)

	if !ok || identity == nil {
		return nil, fmt.Errorf("Invalid identity type in context")
	}

	return identity, nil
}

func GetCurrentProfile(ctx *gin.Context) (*models.Profile, error) {
	value, exists := ctx.Get(types.ContextProfileKey)

	if !exists {
		return nil, fmt.Errorf("User not authenticated")
	}

	profile, ok := value.(*models.Profile)

	if !ok || profile == nil {
		return nil, fmt.Errorf("Invalid profile type in context")
	}

	return profile, nil
}

// Logger returns the request-scoped logger, or the global one outside a
// request.
func Logger(ctx *gin.Context) *zap.Logger {
	if value, exists := ctx.Get(types.ContextLoggerKey); exists {
		if l, ok := value.(*zap.Logger); ok {
			return l
		}
	}
	return logger.L()
}
