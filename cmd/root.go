// Package cmd implements the CLI commands for assetpipe using Cobra.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/assetpipe/core/config"
	"github.com/gaurav-prasanna/assetpipe/core/logging"
	"github.com/gaurav-prasanna/assetpipe/core/report"
)

// AppVersion is set at link time.
var AppVersion = "dev"

// app is the state shared by the sub-commands of one invocation.
type app struct {
	cfg    *config.Config
	log    *logging.Logger
	report *report.Report
	out    io.Writer
}

// NewRootCmd builds the command tree. Each call returns an independent tree
// with its own flags.
func NewRootCmd() *cobra.Command {
	a := &app{report: report.New()}

	root := &cobra.Command{
		Use:   "assetpipe",
		Short: "assetpipe serves a published site's images through the ImageKit CDN",
		Long: `assetpipe rewrites image references in a published static site so they are
served through an ImageKit URL endpoint, and writes the redirect rules that
let ImageKit pull the original files back from the origin.

Usage:
  assetpipe build     [flags]   redirects, then rewrite, then print the status
  assetpipe redirects [flags]   write the routing rules only
  assetpipe rewrite   [flags]   rewrite the HTML documents only
  assetpipe config    [flags]   print the effective configuration`,
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newBuildCmd(a),
		newRedirectsCmd(a),
		newRewriteCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// init loads the configuration and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	a.cfg = cfg
	a.log = logger
	a.out = cmd.OutOrStdout()
	return nil
}

func (a *app) close() error {
	if a.log == nil {
		return nil
	}
	return a.log.Close()
}

// finish logs the collected errors and writes the report file, if one was
// requested.
func (a *app) finish() error {
	a.report.Log(a.log.Logger)

	if a.cfg.Report == "" {
		return nil
	}
	f, err := os.Create(a.cfg.Report)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := a.report.WriteJSON(f); err != nil {
		return err
	}
	a.log.Info().Str("path", a.cfg.Report).Int("pages", a.report.Len()).Msg("Report written")
	return nil
}

// printStatus writes the end-of-build summary to stdout.
func (a *app) printStatus() {
	s := a.report.Status()
	fmt.Fprintln(a.out, s.Title)
	fmt.Fprintln(a.out, s.Summary)
	fmt.Fprintln(a.out, s.Text)
}
