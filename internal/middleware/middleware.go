package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/auth"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/tenancy"
)

// SetupCORS configures CORS middleware
func SetupCORS(baseDomain string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:3001",
			"https://*." + baseDomain,
			"https://" + baseDomain,
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-School-Subdomain"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// Logger returns a gin.HandlerFunc for logging requests
func Logger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.WithFields(logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency":    time.Since(start).String(),
			"request_id": c.GetString("request_id"),
		}).Info("Request handled")
	}
}

// Recovery returns a middleware that recovers from panics
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithField("panic", fmt.Sprintf("%v", recovered)).Error("Panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "An unexpected error occurred",
		})
	})
}

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// Authenticate resolves the session token into an identity and stores it
// in the request context. Requests without a valid session pass through
// unauthenticated.
func Authenticate(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := verifier.Verify(c.Request); identity != nil {
			c.Set("identity", identity)
			c.Set("user_id", identity.UserID)
		}
		c.Next()
	}
}

// RequireAuth aborts requests that carry no verified identity
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("identity"); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "UNAUTHORIZED",
				"message": "A valid session is required",
			})
			return
		}
		c.Next()
	}
}

// SchoolSubdomain extracts the school subdomain injected by the edge
// rewrite and stores it in the request context
func SchoolSubdomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		subdomain := c.GetHeader(tenancy.HeaderSchoolSubdomain)
		if subdomain == "" {
			subdomain = c.Query(tenancy.QueryParamSubdomain)
		}
		if subdomain != "" {
			c.Set("school_subdomain", subdomain)
		}
		c.Next()
	}
}

// RequireSchoolSubdomain aborts tenant-scoped requests that do not name
// a school subdomain
func RequireSchoolSubdomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		subdomain := c.GetHeader(tenancy.HeaderSchoolSubdomain)
		if subdomain == "" {
			subdomain = c.Query(tenancy.QueryParamSubdomain)
		}
		if subdomain == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "MISSING_SUBDOMAIN",
				"message": "x-school-subdomain header is required",
			})
			return
		}
		c.Set("school_subdomain", subdomain)
		c.Next()
	}
}

// Identity returns the verified identity stored by Authenticate, or nil
func Identity(c *gin.Context) *auth.Identity {
	if value, exists := c.Get("identity"); exists {
		if identity, ok := value.(*auth.Identity); ok {
			return identity
		}
	}
	return nil
}

// ActorID returns the verified user's ID, or uuid.Nil when unauthenticated
func ActorID(c *gin.Context) uuid.UUID {
	if identity := Identity(c); identity != nil {
		return identity.UserID
	}
	return uuid.Nil
}
