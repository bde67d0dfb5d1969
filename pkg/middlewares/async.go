package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/gabrielvps/PintClub/internal/utils"
)

// AsyncMiddleware runs the rest of the handler chain on the shared worker
// pool instead of the goroutine gin spawned, bounding the number of
// requests actually executing at once. The pool's queue means bursts wait
// rather than being rejected. The calling goroutine blocks on the done
// channel, so only one goroutine touches the gin.Context at a time.
func AsyncMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// No pool configured: degrade to synchronous execution.
		if utils.GlobalWorkerPool == nil {
			c.Next()
			return
		}

		done := make(chan struct{})

		task := func() {
			defer close(done)
			c.Next()
		}

		utils.GlobalWorkerPool.Submit(task)

		<-done
	}
}
