package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/internal/metrics"
	"github.com/monocle-dev/hackhub/internal/rate"
	"github.com/monocle-dev/hackhub/internal/utils"
	"go.uber.org/zap"
)

// RateLimit applies limiter per client IP. Limiter errors let the request
// through.
func RateLimit(limiter rate.Limiter, route string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := fmt.Sprintf("%s:%s", route, ctx.ClientIP())

		res, err := limiter.Allow(ctx.Request.Context(), key)
		if err != nil {
			utils.Logger(ctx).Warn("rate limiter unavailable", zap.String("route", route), zap.Error(err))
			ctx.Next()
			return
		}

		ctx.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))

		if !res.Allowed {
			metrics.RateLimited.WithLabelValues(route).Inc()

			retryAfter := int64(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}

			ctx.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		ctx.Next()
	}
}
