package middleware

import (
	"net/http"
	"strings"

	"github.com/VidMosaic/vid_mosaic_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog.
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events
// with PostHog for authenticated requests.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		posthogClient.Enqueue(userID, eventName, map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		})
	}
}

// PosthogEvent sends a custom event from a handler (register, login) where the
// user ID is known to the handler rather than the auth middleware.
func PosthogEvent(posthogClient *utils.PosthogClientWrapper, userID string, eventName string, properties map[string]any) {
	if posthogClient == nil || !posthogClient.IsInitialized() || userID == "" {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	posthogClient.Enqueue(userID, eventName, properties)
}
