package middleware

import (
	"net/http"
	"sync"
	"time"
	"veo-prompt-director/application/ports/outbound"

	"github.com/gin-gonic/gin"
)

const sseLockKey = "sseLock"

// SSEMiddleware prepares a streaming response and keeps it alive with comment
// frames until the handler returns or the client leaves. Handlers must write
// through SendEvent so frames never interleave.
func SSEMiddleware(workerPool outbound.TaskDispatcher, heartbeat time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		lock := &sync.Mutex{}
		c.Set(sseLockKey, lock)

		clientGone := c.Request.Context().Done()
		handlerDone := make(chan struct{})

		err := workerPool.Submit(func() {
			ticker := time.NewTicker(heartbeat)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					lock.Lock()
					select {
					case <-handlerDone:
						lock.Unlock()
						return
					default:
					}
					_, err := c.Writer.WriteString(": ping\n\n")
					if err == nil {
						c.Writer.Flush()
					}
					lock.Unlock()
					if err != nil {
						return
					}
				case <-handlerDone:
					return
				case <-clientGone:
					return
				}
			}
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Next()

		lock.Lock()
		close(handlerDone)
		lock.Unlock()
	}
}

// SendEvent writes one SSE frame and flushes it.
func SendEvent(c *gin.Context, name string, data interface{}) {
	if v, ok := c.Get(sseLockKey); ok {
		lock := v.(*sync.Mutex)
		lock.Lock()
		defer lock.Unlock()
	}
	c.SSEvent(name, data)
	c.Writer.Flush()
}
