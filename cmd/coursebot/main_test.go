package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSearchCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "coursebot",
		Commands: []*cli.Command{
			{
				Name:      "search",
				ArgsUsage: "<query>",
				Action:    func(c *cli.Context) error { return nil },
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Value:   10,
					},
				},
			},
		},
	}

	t.Run("db is required", func(t *testing.T) {
		err := app.Run([]string{"coursebot", "search", "經濟學"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("accepts db flag", func(t *testing.T) {
		err := app.Run([]string{"coursebot", "search", "--db", t.TempDir(), "經濟學"})
		assert.NoError(t, err)
	})
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app := &cli.App{
		Name: "coursebot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error { return nil },
	}

	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			assert.NoError(t, app.Run([]string{"coursebot", "--log-level", level}))
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := app.Run([]string{"coursebot", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
