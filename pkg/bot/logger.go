package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RequestLogger assigns a request id to every update and logs its outcome.
func RequestLogger(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *Context) error {
			c.requestID = uuid.NewString()
			start := time.Now()

			err := next(ctx, c)

			attrs := []any{
				"request_id", c.requestID,
				"update_id", c.Update.ID,
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Error("update failed", append(attrs, "err", err)...)
				return err
			}
			logger.Debug("update handled", attrs...)
			return nil
		}
	}
}
