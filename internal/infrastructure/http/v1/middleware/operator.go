package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "furnicost/internal/core/context"
)

const (
	// HeaderOperator names the person behind a request. It is recorded with
	// cost fingerprints; it is not an authentication mechanism.
	HeaderOperator = "X-Operator"

	OperatorKey = "operator"

	maxOperatorLen = 128
)

// Operator copies the X-Operator header into the request context.
func Operator() gin.HandlerFunc {
	return func(c *gin.Context) {
		op := strings.TrimSpace(c.GetHeader(HeaderOperator))
		if len(op) > maxOperatorLen {
			op = op[:maxOperatorLen]
		}
		if op != "" {
			c.Request = c.Request.WithContext(appctx.WithOperator(c.Request.Context(), op))
			c.Set(OperatorKey, op)
		}
		c.Next()
	}
}
