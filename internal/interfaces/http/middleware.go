package httpinterface

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

func requestLogger(c *gin.Context) {
	log.Debugf("%s %s", c.Request.Method, c.Request.URL.Path)
	c.Next()
}

// throttle blocks every request until the limiter lets it through.
func throttle(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter.Take()
		c.Next()
	}
}
