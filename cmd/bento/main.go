package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bento/internal/config"
	"github.com/vango-dev/bento/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┐ ┌─┐┌┐┌┌┬┐┌─┐
  ├┴┐├┤ │││ │ │ │
  └─┘└─┘┘└┘ ┴ └─┘
`

// app holds state shared by every command.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func main() {
	a := &app{out: os.Stdout}
	if err := a.rootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bento",
		Short: "Declarative sectioned lists for Go",
		Long: `Bento reconciles declarative boxes of sections and rows into a
stateful list surface with minimal, identity-preserving batch updates.

The CLI replays YAML scenarios against an in-memory surface:

  • diff      print the edit script between consecutive renders
  • simulate  apply every render and verify the surface converges
  • inspect   serve a live inspector while replaying a scenario`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to bento.json (default: nearest bento.json)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from bento.json)")

	rootCmd.AddCommand(
		a.diffCmd(),
		a.simulateCmd(),
		a.inspectCmd(),
		a.versionCmd(),
	)
	return rootCmd
}

// setup loads configuration and installs the logger.
func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level, err := a.cfg.SlogLevel()
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	return nil
}

// printBanner prints the bento ASCII art banner.
func (a *app) printBanner() {
	fmt.Fprint(a.out, banner)
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.out, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.out, "  %s\n", fmt.Sprintf(format, args...))
}
