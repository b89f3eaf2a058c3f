package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"socially/internal/cmd/flags"
	"socially/internal/feedevents"
	"socially/internal/metrics"
)

var eventsCmd = &cli.Command{
	Name:  "events",
	Usage: "Consume the interaction event stream and expose per-operation metrics",
	Flags: []cli.Flag{
		flags.NATSUrl,
		flags.NATSInit,
		flags.MetricsAddr,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide(&feedevents.Worker{}),
			pal.Provide(&metrics.Server{}),
		)
	},
}
