// Package main provides the checklinks CLI entrypoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docwire/checklinks/checker"
	"github.com/docwire/checklinks/result"
	"github.com/docwire/checklinks/tui"
	"github.com/docwire/checklinks/walker"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// errBrokenLinks marks a completed run that found unreachable links.
// The summary is already on screen by then, so main exits silently.
var errBrokenLinks = errors.New("broken links found")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errBrokenLinks) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklinks [flags] [path]",
		Short: "Find and verify the links in a directory tree",
		Long: `checklinks walks a directory tree, extracts the links from source and
documentation files, and verifies each one: HTTP links with a network
probe, local file links against the filesystem.

Broken links fail the run with exit status 1. Links that cannot be
judged automatically (bot checks, auth walls) are reported as warnings
and do not affect the exit status.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}

	flags := cmd.Flags()
	flags.CountP("verbose", "v", "increase verbosity (-v warnings, -vv info, -vvv debug)")
	flags.Bool("no-color", false, "disable colored output")
	flags.IntP("depth", "d", 0, "maximum traversal depth below the root (0 = unlimited)")
	flags.IntP("concurrency", "c", checker.DefaultConcurrency, "maximum in-flight link verifications")
	flags.DurationP("timeout", "t", checker.DefaultTimeout, "HTTP probe timeout")
	flags.Float64("rate-limit", 0, "maximum HTTP probes per second (0 = unlimited)")
	flags.Int("retries", 0, "retries for transient HTTP failures")
	flags.String("user-agent", defaultUserAgent(), "User-Agent header for HTTP probes")
	flags.Bool("respect-robots", false, "honor robots.txt exclusions when probing")
	flags.Bool("progress", false, "show a live progress display instead of per-link lines")
	flags.String("report", "", "write problem links to this file (.json or .csv)")
	flags.String("config", "", "config file (default .checklinks.yaml in the scanned root)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	source, err := walker.New(root, walker.Options{MaxDepth: cfg.Depth})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	events := make(chan checker.Event, 100)
	c := checker.New(cfg.Checker, source, events)

	if cfg.Progress {
		return runTUI(ctx, cancel, c, events, cfg)
	}
	return runPlain(ctx, c, events, cfg)
}

// runPlain streams per-link lines to stdout as results arrive, then
// prints the summary.
func runPlain(ctx context.Context, c *checker.Checker, events <-chan checker.Event, cfg appConfig) error {
	printer := result.New(os.Stdout, cfg.Verbosity, !cfg.NoColor)

	var (
		rep    *checker.Report
		runErr error
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		rep, runErr = c.Run(ctx)
	}()

	for evt := range events {
		switch {
		case evt.Link != nil:
			printer.Link(evt.Link)
		case evt.Err != nil:
			printer.Warnf("skipping %s: %v", evt.Path, evt.Err)
		case evt.Note != "":
			printer.Debugf("%s", evt.Note)
		default:
			printer.Debugf("scanning file %s", evt.Path)
		}
	}
	<-done

	if runErr != nil {
		return runErr
	}
	printer.Summary(rep)
	return finish(rep, cfg)
}

// runTUI hands the run to the Bubble Tea progress display.
func runTUI(ctx context.Context, cancel context.CancelFunc, c *checker.Checker, events <-chan checker.Event, cfg appConfig) error {
	model := tui.NewModel(ctx, cancel, c, events)
	program := tea.NewProgram(model)

	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("run progress display: %w", err)
	}

	final := finalModel.(tui.Model)
	if final.Err() != nil {
		return final.Err()
	}
	rep := final.Report()
	if rep == nil {
		return errors.New("check cancelled")
	}
	return finish(rep, cfg)
}

// finish writes the report file when requested and converts broken
// links into the process exit status.
func finish(rep *checker.Report, cfg appConfig) error {
	if cfg.Report != "" {
		if err := result.WriteFile(cfg.Report, rep); err != nil {
			return err
		}
	}
	if rep.ExitCode() != 0 {
		return errBrokenLinks
	}
	return nil
}
