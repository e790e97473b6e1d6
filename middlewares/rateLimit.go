package middlewares

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/CampusPrayer/services"
)

var (
	limiters = make(map[string]*rate.Limiter)
	mu       sync.Mutex
)

func getLimiter(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	limiter, exists := limiters[key]
	if !exists {
		limiter = rate.NewLimiter(r, b)
		limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware keeps one token bucket per (name, key). name separates
// routes that share a key function but not a budget.
func RateLimitMiddleware(name string, r rate.Limit, b int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := getLimiter(name+":"+keyFunc(c), r, b)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please slow down."})
			return
		}

		c.Next()
	}
}

func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// AccountKey limits per signed-in account and falls back to the client IP.
func AccountKey(c *gin.Context) string {
	if value, ok := c.Get(ClientKey); ok {
		if client, ok := value.(*services.Client); ok {
			return "account:" + client.AccountID()
		}
	}
	return "ip:" + c.ClientIP()
}
