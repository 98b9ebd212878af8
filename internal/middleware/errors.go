package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"ecoscan-backend/internal/apierr"
	"ecoscan-backend/internal/config"
	"ecoscan-backend/internal/models"
)

// ErrorMiddleware is the single translator between internal failures and the
// client-facing envelope. Handlers attach errors with c.Error and return;
// whatever the origin (provider, object store, database, auth), the response
// is always {success:false, message, errors, data:null}. In production,
// messages of uncategorized errors are suppressed.
func ErrorMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		apiErr := apierr.From(err)

		message := apiErr.Message
		if cfg.IsProduction() && apiErr.Kind == apierr.KindUnknown {
			message = "Internal server error"
		} else if apiErr.Kind == apierr.KindUnknown {
			log.Printf("unhandled error: %v", err)
		}

		c.JSON(apiErr.Status, models.APIError{
			Success: false,
			Message: message,
			Errors:  apiErr.Details,
			Data:    nil,
		})
	}
}
