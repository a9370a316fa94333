package gateway

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/retailshop/pkg/account"
	"github.com/example/retailshop/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const claimsKey = "claims"

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retailshop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retailshop_http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "path"},
	)
)

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// authenticate requires a valid bearer token and stores its claims.
func (g *Gateway) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauth(c, "missing bearer token")
			return
		}
		claims, err := g.services.Tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauth(c, apperr.Message(err))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !claimsOf(c).Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func claimsOf(c *gin.Context) *account.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*account.Claims); ok {
			return claims
		}
	}
	return &account.Claims{}
}

func unauth(c *gin.Context, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": desc})
}
