package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PINHeader carries the staff PIN for gated actions
const PINHeader = "X-Pin"

// PINRequired rejects requests whose X-Pin header does not match pin.
// An empty pin leaves the route open.
func PINRequired(pin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pin == "" {
			c.Next()
			return
		}
		got := c.GetHeader(PINHeader)
		if got == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "PIN required"})
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(pin)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid PIN"})
			c.Abort()
			return
		}
		c.Next()
	}
}
