package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// DefaultAllowedOrigins covers the web app, React Native dev servers and
// the Android emulator. "null" is what file:// pages and some WebViews send.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:8080",
	"http://localhost:8081",
	"http://127.0.0.1:8081",
	"http://10.0.2.2:8081",
	"http://10.0.2.2:3001",
	"null",
}

// CORS answers for allowed origins only and always with credentials, since
// the auth cookie must travel cross-origin. Requests without an Origin
// header (mobile clients) pass through untouched.
func CORS(extraOrigins ...string) gin.HandlerFunc {
	allowed := slices.Clone(DefaultAllowedOrigins)
	for _, o := range extraOrigins {
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && slices.Contains(allowed, origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
