package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labelprint-service/database"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"
)

// IdempotencyStore persists responses by idempotency key.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (*database.StoredResponse, error)
	Save(ctx context.Context, key string, resp database.StoredResponse) error
	Release(ctx context.Context, key string) error
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key, so a resubmitted form does not print twice. Requests
// without the header pass through. Responses with a 5xx status are not
// stored and the key is released for retry. Store outages are logged and
// the request is served without protection.
func Idempotency(store IdempotencyStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		scoped := c.FullPath() + ":" + key

		stored, err := store.Get(ctx, scoped)
		switch {
		case errors.Is(err, database.ErrInProgress):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "A request with this Idempotency-Key is already being processed.",
			})
			return
		case err != nil:
			log.Warn("Idempotency lookup failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		case stored != nil:
			c.Header(IdempotentReplayHeader, "true")
			c.Data(stored.Status, stored.ContentType, []byte(stored.Body))
			c.Abort()
			return
		}

		reserved, err := store.Reserve(ctx, scoped)
		if err != nil {
			log.Warn("Idempotency reserve failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "A request with this Idempotency-Key is already being processed.",
			})
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		saveCtx := context.WithoutCancel(ctx)
		status := recorder.Status()
		if status >= 500 {
			if err := store.Release(saveCtx, scoped); err != nil {
				log.Warn("Idempotency release failed", zap.String("key", key), zap.Error(err))
			}
			return
		}

		resp := database.StoredResponse{
			Status:      status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.String(),
		}
		if err := store.Save(saveCtx, scoped, resp); err != nil {
			log.Warn("Idempotency save failed", zap.String("key", key), zap.Error(err))
		}
	}
}
