package main

import (
	"github.com/spf13/cobra"
	sessionredis "github.com/weekian/telegraf-session-redis"
	"github.com/weekian/telegraf-session-redis/internal/demo"
	"github.com/weekian/telegraf-session-redis/pkg/bot"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process JSON-lines updates from stdin with the demo counter bot",
		Long: `Reads one update per line, e.g.

  {"update_id":1,"from":{"id":1,"username":"ann"},"chat":{"id":1},"text":"hi"}

and runs it through both session interception points and a counter bot that
replies on stdout. Send "/reset" as text to clear the sender's session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inMemory, _ := cmd.Flags().GetBool("memory")
			stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

			rs, err := a.open(inMemory)
			if err != nil {
				return err
			}
			defer rs.Close()

			runner := &sessionredis.Runner{
				Input:       cmd.InOrStdin(),
				Handler:     counterChain(rs, cmd),
				Logger:      a.logger,
				StopOnError: stopOnError,
			}
			return runner.Run(cmd.Context())
		},
	}
	cmd.Flags().Bool("memory", false, "Keep sessions in memory instead of Redis")
	cmd.Flags().Bool("stop-on-error", false, "Abort on the first failed update")
	return cmd
}

// counterChain wires the demo counter behind request logging and both sessions.
func counterChain(rs *sessionredis.RedisSession, cmd *cobra.Command) bot.Handler {
	counter := &demo.Counter{
		Out:         cmd.OutOrStdout(),
		Session:     rs.Session,
		ChatSession: rs.ChatSession,
	}
	return bot.Chain(counter.Handle,
		bot.RequestLogger(rs.Logger()),
		rs.Middleware(),
		rs.ChatMiddleware(),
	)
}
