package http

import (
	"github.com/gin-gonic/gin"

	"github.com/sjzar/procwatch/internal/errors"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// checkStateMiddleware 共享状态中毒时返回 503
func (s *Service) checkStateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.store.Poisoned() {
			errors.Err(c, errors.StatePoisoned(nil))
			c.Abort()
			return
		}

		c.Next()
	}
}
