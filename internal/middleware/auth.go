package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/internal/models"
	"github.com/monocle-dev/hackhub/internal/services"
	"github.com/monocle-dev/hackhub/internal/types"
	"github.com/monocle-dev/hackhub/internal/utils"
	"go.uber.org/zap"
)

type SessionVerifier interface {
	Verify(token string) (*services.Identity, error)
}

// ProfileResolver is satisfied by services.Provisioner.
type ProfileResolver interface {
	EnsureProfile(ctx context.Context, identity *services.Identity) (*models.Profile, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.Profile, error)
}

// RequireSession accepts a Bearer token or the provider's session cookie.
func RequireSession(verifier SessionVerifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := ""

		if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)

			if len(parts) != 2 || parts[0] != "Bearer" {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
				return
			}

			tokenString = parts[1]
		} else if cookie, err := ctx.Cookie(types.SessionCookie); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		identity, err := verifier.Verify(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextIdentityKey, identity)
		ctx.Next()
	}
}

// CurrentProfile loads the caller's profile, provisioning it on first contact.
// Once the sync cookie matches the identity a plain lookup is enough. Any
// failure here means the caller is treated as signed out.
func CurrentProfile(resolver ProfileResolver, cookieDomain string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, err := utils.GetIdentity(ctx)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		log := utils.Logger(ctx).With(zap.String("clerk_id", identity.ExternalID))

		var profile *models.Profile
		synced := false

		if cookie, err := ctx.Cookie(types.ProfileSyncedCookie); err == nil && cookie == identity.ExternalID {
			profile, err = resolver.FindByExternalID(ctx.Request.Context(), identity.ExternalID)
			if err != nil {
				log.Warn("profile lookup failed", zap.Error(err))
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
				return
			}
			synced = profile != nil
		}

		// A stale cookie (profile deleted since) falls through to provisioning.
		if profile == nil {
			profile, err = resolver.EnsureProfile(ctx.Request.Context(), identity)
			if err != nil || profile == nil {
				log.Warn("profile provisioning failed", zap.Error(err))
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
				return
			}
		}

		if profile.IsBanned {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is banned"})
			return
		}

		if !synced {
			http.SetCookie(ctx.Writer, &http.Cookie{
				Name:     types.ProfileSyncedCookie,
				Value:    identity.ExternalID,
				Path:     "/",
				Domain:   cookieDomain,
				Secure:   true,
				HttpOnly: true,
				SameSite: http.SameSiteNoneMode,
			})
		}

		ctx.Set(types.ContextProfileKey, profile)
		ctx.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		profile, err := utils.GetCurrentProfile(ctx)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if !profile.IsAdmin() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		ctx.Next()
	}
}
