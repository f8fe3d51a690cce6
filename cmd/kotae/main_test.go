package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/kotaelabs/kotae"
	"github.com/kotaelabs/kotae/search"
)

func commandFlags(t *testing.T, commands []*cli.Command, name string) []cli.Flag {
	t.Helper()
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd.Flags
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func stringFlag(t *testing.T, flags []cli.Flag, name string) *cli.StringFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func intFlag(t *testing.T, flags []cli.Flag, name string) *cli.IntFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func TestReindexCommandFlags(t *testing.T) {
	flags := append(storeFlags(), embeddingFlags()...)

	t.Run("db is required", func(t *testing.T) {
		dbFlag := stringFlag(t, flags, "db")
		require.NotNil(t, dbFlag)
		assert.True(t, dbFlag.Required)
		assert.Contains(t, dbFlag.Aliases, "d")
	})

	t.Run("dimension defaults to the store default", func(t *testing.T) {
		dimFlag := intFlag(t, flags, "dimension")
		require.NotNil(t, dimFlag)
		assert.Equal(t, kotae.DefaultDimension, dimFlag.Value)
	})

	t.Run("embedding-host has default value", func(t *testing.T) {
		hostFlag := stringFlag(t, flags, "embedding-host")
		require.NotNil(t, hostFlag)
		assert.Equal(t, "https://api.openai.com/v1", hostFlag.Value)
		assert.Empty(t, hostFlag.EnvVars)
	})

	t.Run("embedding-model has default value", func(t *testing.T) {
		modelFlag := stringFlag(t, flags, "embedding-model")
		require.NotNil(t, modelFlag)
		assert.Equal(t, "text-embedding-3-small", modelFlag.Value)
		assert.Empty(t, modelFlag.EnvVars)
	})
}

func TestIngestCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "kotae",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags: append(storeFlags(), append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Required: true,
					},
				)...),
			},
		},
	}

	t.Run("missing db flag fails", func(t *testing.T) {
		args := []string{"kotae", "ingest", "--file", "/tmp/entries.json"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("missing file flag fails", func(t *testing.T) {
		args := []string{"kotae", "ingest", "--db", "/tmp/test"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})

	t.Run("unreadable source file fails", func(t *testing.T) {
		args := []string{"kotae", "ingest", "--db", t.TempDir(), "--file", "/nonexistent/entries.json"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source file")
	})
}

func TestSearchCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "kotae",
		Commands: []*cli.Command{
			{
				Name:   "search",
				Action: searchCommand,
				Flags: append(storeFlags(), append(embeddingFlags(),
					&cli.IntFlag{Name: "top-k", Value: search.DefaultTopK},
					&cli.Float64Flag{Name: "min-score", Value: float64(search.DefaultMinScore)},
				)...),
			},
		},
	}

	t.Run("missing query fails", func(t *testing.T) {
		args := []string{"kotae", "search", "--db", t.TempDir()}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := newApp().Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
