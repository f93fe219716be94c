package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/appmand/internal/server/packages"
	"github.com/atlanticdynamic/appmand/internal/settings"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(28)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a settings file and optional app catalog",
		ArgsUsage: "<settings.toml> [apps.toml]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("settings file path required")
			}

			cfg, err := settings.Load(cmd.Args().Get(0))
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			fmt.Println(okStyle.Render("Settings file is valid"))
			fmt.Println(renderSettings(cfg))

			if cmd.Args().Len() > 1 {
				catalog, err := packages.LoadCatalog(cmd.Args().Get(1))
				if err != nil {
					return fmt.Errorf("failed to load app catalog: %w", err)
				}
				fmt.Println(okStyle.Render(fmt.Sprintf("App catalog is valid (%d apps)", catalog.Len())))
			}
			return nil
		},
	}
}

func renderSettings(cfg *settings.Settings) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("appmand settings"))
	b.WriteString("\n")

	row := func(key, value string) {
		b.WriteString(keyStyle.Render(key))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("keep-alive apps", strings.Join(cfg.KeepAliveApps, ", "))
	row("fullscreen window types", strings.Join(cfg.FullscreenWindowTypes, ", "))
	row("fallback app", cfg.FallbackAppID)
	row("last-loading timeout", cfg.LastLoadingAppTimeout().String())
	row("launch expired timeout", cfg.LaunchExpiredTimeout().String())
	row("loading expired timeout", cfg.LoadingExpiredTimeout().String())
	return b.String()
}
