package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jharkhand-tourism/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyLockTTL = 10 * time.Second
	idempotencyTTL     = 24 * time.Hour
	idempotencyPending = "PROCESSING"
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// capturingWriter copies the response body while it is written.
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency honours the Idempotency-Key header. The first request locks the
// key for idempotencyLockTTL; a 2xx response is stored for idempotencyTTL and
// replayed with X-Idempotency-Replayed: true. A duplicate that arrives while
// the first is running gets 409, and a non-2xx response releases the key.
// Without Redis the middleware does nothing.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		if rdb == nil || header == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := fmt.Sprintf("idempotency:%d:%s:%s", c.GetInt(ctxUserID), c.Request.URL.Path, header)

		val, err := rdb.Get(ctx, key).Result()
		switch {
		case err == nil && val == idempotencyPending:
			respondError(c, fmt.Errorf("a request with this Idempotency-Key is in progress: %w", apperr.ErrConflict))
			return
		case err == nil:
			var stored storedResponse
			if json.Unmarshal([]byte(val), &stored) == nil {
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(stored.Status, stored.ContentType, stored.Body)
				c.Abort()
				return
			}
		case !errors.Is(err, redis.Nil):
			slog.Warn("idempotency lookup failed", "key", key, "error", err)
			c.Next()
			return
		}

		acquired, err := rdb.SetNX(ctx, key, idempotencyPending, idempotencyLockTTL).Result()
		if err != nil {
			slog.Warn("idempotency lock failed", "key", key, "error", err)
			c.Next()
			return
		}
		if !acquired {
			respondError(c, fmt.Errorf("a request with this Idempotency-Key is in progress: %w", apperr.ErrConflict))
			return
		}

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		// The outcome is recorded even if the client has gone away.
		ctx = context.WithoutCancel(ctx)
		status := w.Status()
		if status < 200 || status >= 300 {
			rdb.Del(ctx, key)
			return
		}
		raw, err := json.Marshal(storedResponse{Status: status, ContentType: w.Header().Get("Content-Type"), Body: w.body.Bytes()})
		if err == nil {
			err = rdb.Set(ctx, key, raw, idempotencyTTL).Err()
		}
		if err != nil {
			slog.Warn("store idempotent response failed", "key", key, "error", err)
			rdb.Del(ctx, key)
		}
	}
}
