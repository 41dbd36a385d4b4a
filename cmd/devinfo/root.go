package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ardnew/devinfo/devtree"
	"github.com/ardnew/devinfo/devtree/hal"
	"github.com/ardnew/devinfo/devtree/hal/memory"
	"github.com/ardnew/devinfo/pkg"
)

// app holds the flags shared by every subcommand.
type app struct {
	verbose bool
	json    bool
	fixture string

	sys hal.System
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "devinfo",
		Short:         "Inspect the illumos device tree",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&a.json, "json", false, "write logs as JSON")
	flags.StringVar(&a.fixture, "fixture", "", "read the device tree from a YAML fixture instead of the system")

	root.AddCommand(
		newPrtconfCommand(a),
		newDisksCommand(a),
		newTranslateCommand(a),
		newUsbconfCommand(a),
		newUsbloomsCommand(a),
	)
	return root
}

// setup configures logging and selects the device tree provider.
func (a *app) setup(cmd *cobra.Command) error {
	format := pkg.LogFormatText
	if a.json {
		format = pkg.LogFormatJSON
	}
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	pkg.SetLogLevel(level)
	pkg.SetLogOutput(cmd.ErrOrStderr(), format)

	if a.fixture == "" {
		a.sys = devtree.DefaultSystem()
		return nil
	}

	f, err := memory.LoadFile(a.fixture)
	if err != nil {
		return err
	}
	sys, err := memory.New(f)
	if err != nil {
		return fmt.Errorf("%s: %w", a.fixture, err)
	}
	pkg.LogInfo(pkg.ComponentCLI, "using fixture", "path", a.fixture)
	a.sys = sys
	return nil
}
