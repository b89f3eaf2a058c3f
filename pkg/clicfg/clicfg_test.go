package clicfg_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"socially/pkg/clicfg"
)

type testConfig struct {
	Name    string `flag:"name"`
	Debug   bool   `flag:"debug"`
	Workers int    `flag:"workers"`

	Ignored string
}

func parse(t *testing.T, args []string, dest any) error {
	t.Helper()

	var parseErr error
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name"},
			&cli.BoolFlag{Name: "debug"},
			&cli.IntFlag{Name: "workers"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			parseErr = clicfg.ParseFlags(c, dest)
			return nil
		},
	}
	require.NoError(t, cmd.Run(t.Context(), append([]string{"test"}, args...)))
	return parseErr
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	t.Run("copies tagged fields", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		err := parse(t, []string{"--name", "socially", "--debug", "--workers", "4"}, &cfg)
		require.NoError(t, err)
		require.Equal(t, "socially", cfg.Name)
		require.True(t, cfg.Debug)
		require.Equal(t, 4, cfg.Workers)
		require.Empty(t, cfg.Ignored)
	})

	t.Run("requires a struct pointer", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		err := parse(t, nil, cfg)
		require.ErrorIs(t, err, clicfg.ErrCannotParseFlags)

		value := "not a struct"
		err = parse(t, nil, &value)
		require.ErrorIs(t, err, clicfg.ErrCannotParseFlags)
	})

	t.Run("rejects unsupported field kinds", func(t *testing.T) {
		t.Parallel()

		var cfg struct {
			Ratio float64 `flag:"name"`
		}
		err := parse(t, nil, &cfg)
		require.ErrorIs(t, err, clicfg.ErrCannotParseFlags)
	})
}
