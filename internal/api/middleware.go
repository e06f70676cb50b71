package api

import (
	"strconv"
	"strings"
	"time"

	"linguaquiz/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CORSMiddleware adds CORS headers to allow cross-origin requests from frontendURL
func CORSMiddleware(frontendURL string) gin.HandlerFunc {
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}
	origin := strings.TrimSuffix(frontendURL, "/")

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequestLogger logs every request and records it in m
func RequestLogger(log *logrus.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(status), elapsed)

		entry := log.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"route":       route,
			"status":      status,
			"duration_ms": elapsed.Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		if status >= 500 {
			entry.Error("Request failed")
		} else {
			entry.Debug("Request handled")
		}
	}
}
