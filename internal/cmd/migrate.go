package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"socially/internal/cmd/flags"
	"socially/internal/core"
	"socially/internal/persistence"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Manage the database schema",
	Flags: []cli.Flag{
		flags.DatabaseURL,
		flags.MigrationsPath,
	},
	Commands: []*cli.Command{
		{
			Name:  "up",
			Usage: "Apply pending migrations",
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c,
					pal.Provide[core.DB](&persistence.DB{}),
					pal.Provide(&persistence.Migrator{}),
					pal.Provide(&persistence.MigrationUpRunner{}),
				)
			},
		},
		{
			Name:  "down",
			Usage: "Roll back the last migration",
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c,
					pal.Provide[core.DB](&persistence.DB{}),
					pal.Provide(&persistence.Migrator{}),
					pal.Provide(&persistence.MigrationDownRunner{}),
				)
			},
		},
	},
}
