// Package cliui holds the shared terminal styling and command bootstrap
// used by every trawl subcommand.
package cliui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/config"
	"github.com/harborworks/trawl/pkg/logger"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	RankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	ScoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ContentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	OKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Setup reads the root command's persistent flags and loads configuration
// and a logger. Every subcommand calls this first.
func Setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, nil, fmt.Errorf("could not get debug flag: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("could not get config flag: %w", err)
	}

	cfg, err := config.InitViper(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, logger.NewLogger(debug), nil
}

// Truncate shortens s to at most max runes for single-line previews.
// Cutting on rune boundaries keeps multi-byte text intact.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
