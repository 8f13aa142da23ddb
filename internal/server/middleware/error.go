package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"go.uber.org/zap"
)

// ErrorHandler converts errors attached by handlers into RFC 9457 problem
// responses. It is the single place the error taxonomy meets HTTP.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		problem := domain.ProblemFrom(err)

		if problem.Log != nil {
			logger.Error("request failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(problem.Log),
			)
		}

		c.JSON(problem.Status, problem)
		c.Abort()
	}
}
