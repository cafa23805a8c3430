package middleware

import (
	"github.com/gin-gonic/gin"

	"furnicost/internal/core/tx"
)

// Database injects the transaction manager into the request context so that
// services built without one can still open transactions.
func Database(txm tx.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if txm != nil {
			c.Request = c.Request.WithContext(tx.WithManager(c.Request.Context(), txm))
		}
		c.Next()
	}
}
