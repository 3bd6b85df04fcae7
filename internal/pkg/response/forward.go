package response

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/hourglass-gateway/internal/upstream"
)

// Forward writes a successful upstream result to the client verbatim:
// same status code, same JSON body.
func Forward(c *gin.Context, res *upstream.Result) {
	if len(res.Body) == 0 {
		c.Status(res.Status)
		return
	}
	c.Data(res.Status, "application/json", res.Body)
}
