package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"friendgraph/config"
)

func CORSMiddleware() gin.HandlerFunc {
	allowedOrigins := config.Cfg.CORSAllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = config.DefaultCORSAllowedOrigins
	}
	originMap := make(map[string]bool)
	for _, origin := range strings.Split(allowedOrigins, ",") {
		originMap[strings.TrimSpace(origin)] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if originMap[origin] || allowedOrigins == "*" {
			c.Header("Access-Control-Allow-Origin", origin)
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
