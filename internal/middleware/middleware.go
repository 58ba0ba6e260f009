package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gst-reporting-service/internal/clients"
)

// SecurityHeaders adds security headers to responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Next()
	}
}

// StoreCredentials extracts the store credential headers into the request
// context. The headers are opaque; they are never validated here, only
// forwarded to the order source.
func StoreCredentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := clients.Credentials{
			StoreName:   c.GetHeader("store-name"),
			APIVersion:  c.GetHeader("api-version"),
			AccessToken: c.GetHeader("access-token"),
		}
		c.Set("storeCredentials", creds)
		c.Next()
	}
}

// RequireStoreCredentials rejects requests missing any of the three
// credential headers.
func RequireStoreCredentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := GetCredentials(c)
		if !creds.Complete() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "MISSING_CREDENTIALS",
				"message": "Missing required headers",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCredentials retrieves the store credentials from the context.
func GetCredentials(c *gin.Context) clients.Credentials {
	if v, ok := c.Get("storeCredentials"); ok {
		if creds, ok := v.(clients.Credentials); ok {
			return creds
		}
	}
	return clients.Credentials{
		StoreName:   c.GetHeader("store-name"),
		APIVersion:  c.GetHeader("api-version"),
		AccessToken: c.GetHeader("access-token"),
	}
}
