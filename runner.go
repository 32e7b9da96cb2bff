package sessionredis

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/weekian/telegraf-session-redis/internal/logging"
	"github.com/weekian/telegraf-session-redis/pkg/bot"
	"github.com/weekian/telegraf-session-redis/pkg/domain"
)

// Runner feeds updates read as JSON lines through a handler chain, one at a time.
// It is a development harness; production adapters build bot.Contexts from
// their own transport.
type Runner struct {
	Input   io.Reader
	Handler bot.Handler
	Logger  *slog.Logger

	// StopOnError aborts the run on the first handler error instead of logging it.
	StopOnError bool
}

// Run processes updates until the input is exhausted or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	input := r.Input
	if input == nil {
		input = os.Stdin
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var update domain.Update
		if err := json.Unmarshal([]byte(line), &update); err != nil {
			logger.Warn("Skipping invalid update", "err", err)
			continue
		}

		if err := r.Handler(ctx, bot.NewContext(update)); err != nil {
			if r.StopOnError {
				return err
			}
			logger.Error("Update failed", "update_id", update.ID, "err", err)
		}
	}
	return scanner.Err()
}
