package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"keel/internal/loader"
	"keel/internal/loadlevel"
	"keel/internal/metadata"
	"keel/internal/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] manifest.toml [type ...]",
	Short: "Show descriptors and reached load levels for a module",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("to", "loaded", "drive types to this level (created|approx-parents|exact-parents|dependencies|loaded)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	if _, err := setupTracing(cmd); err != nil {
		return err
	}

	toStr, _ := cmd.Flags().GetString("to")
	target, err := loadlevel.ParseLevel(toStr)
	if err != nil {
		return err
	}

	payload, _, err := metadata.LoadCompiled(cmd.Context(), args[0], nil)
	if err != nil {
		return err
	}

	collector := &loader.Collector{}
	st := loadlevel.NewState(collector.ReporterFor(0, payload.Module))
	l := loader.New(payload, loader.Options{State: st})

	names := args[1:]
	if len(names) == 0 {
		for _, rec := range payload.Types {
			names = append(names, rec.Name)
		}
	}
	for _, name := range names {
		if _, err := l.LoadTo(cmd.Context(), name, target); err != nil {
			return fmt.Errorf("inspect %q: %w", name, err)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tKIND\tBASE\tLEVEL")
	reg := l.Registry()
	reg.All(func(_ types.TypeID, d *types.Def) {
		base := ""
		if b, ok := reg.Lookup(d.Base); ok {
			base = b.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Kind, base, d.Level)
	})
	if err := w.Flush(); err != nil {
		return err
	}

	if n := collector.Count(); n > 0 {
		return fmt.Errorf("%d ordering violations", n)
	}
	return nil
}
