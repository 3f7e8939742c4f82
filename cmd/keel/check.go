package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"keel/internal/loader"
	"keel/internal/metadata"
	"keel/internal/observ"
	"keel/internal/project"
	"keel/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [manifest.toml ...]",
	Short: "Load module metadata and verify the ordering contract",
	Long: `Check compiles the given manifests, drives every type through the load
phases and reports any load-level ordering violations. Without arguments the
manifests come from the keel.toml project file.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("strict", false, "treat eager fields as violations instead of audited exceptions")
	checkCmd.Flags().Bool("no-enforce", false, "disable the load-level discipline entirely")
	checkCmd.Flags().Int("jobs", 0, "parallel module loads (0 = per-CPU)")
	checkCmd.Flags().Bool("no-cache", false, "skip the compiled-metadata disk cache")
	checkCmd.Flags().Bool("ui", false, "show interactive load progress")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if _, err := setupTracing(cmd); err != nil {
		return err
	}

	cfg, _, err := project.Discover(".")
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = cfg.Manifests
	}
	if len(paths) == 0 {
		return fmt.Errorf("no manifests: pass paths or list them in %s", project.ManifestName)
	}

	strict, _ := cmd.Flags().GetBool("strict")
	noEnforce, _ := cmd.Flags().GetBool("no-enforce")
	jobs, _ := cmd.Flags().GetInt("jobs")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	withUI, _ := cmd.Flags().GetBool("ui")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	opts := loader.RunOptions{
		Jobs:    jobs,
		Strict:  strict || cfg.Loader.Strict,
		Enforce: cfg.Loader.Enforce && !noEnforce,
	}
	if opts.Jobs == 0 {
		opts.Jobs = cfg.Loader.Jobs
	}
	if !noCache {
		cache, err := metadata.OpenCache("keel")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		opts.Cache = cache
	}

	var results []loader.ModuleResult
	var collector *loader.Collector
	if withUI && isTerminal(os.Stdout) {
		results, collector, err = runCheckWithUI(cmd.Context(), "keel check", paths, opts)
	} else {
		results, collector, err = loader.LoadModules(cmd.Context(), paths, opts)
	}
	if err != nil {
		return err
	}

	styles := report.PlainStyles()
	if useColor(cmd, os.Stdout) {
		styles = report.DefaultStyles()
	}

	violations := collector.Violations()
	for _, v := range violations {
		fmt.Fprint(os.Stdout, styles.Violation(v))
	}
	if !quiet {
		fmt.Fprint(os.Stdout, styles.Summary(results, len(violations)))
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		for _, r := range results {
			fmt.Fprintf(os.Stderr, "%s %s", r.Module, renderTiming(r.Timing))
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d modules failed", failed, len(results))
	}
	if len(violations) > 0 {
		return fmt.Errorf("%d ordering violations", len(violations))
	}
	return nil
}

func renderTiming(r observ.Report) string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, s := range r.Stages {
		sb.WriteString(fmt.Sprintf("  %-12s %7.2f ms", s.Name, s.DurationMS))
		if s.Note != "" {
			sb.WriteString("  // " + s.Note)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("  %-12s %7.2f ms\n", "total", r.TotalMS))
	return sb.String()
}
