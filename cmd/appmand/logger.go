package main

import (
	"log/slog"

	"github.com/atlanticdynamic/appmand/internal/logging"
	"github.com/urfave/cli/v3"
)

// setupLogger builds the slog handler from the root command flags and
// installs it as the default logger.
func setupLogger(cmd *cli.Command) slog.Handler {
	level := cmd.Root().String("log-level")

	var handler slog.Handler
	if cmd.Root().String("log-format") == "json" {
		handler = logging.SetupHandlerJSON(level, nil)
	} else {
		handler = logging.SetupHandlerText(level, nil)
	}

	slog.SetDefault(slog.New(handler))
	return handler
}
