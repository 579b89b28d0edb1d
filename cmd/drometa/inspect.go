package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hupe1980/drometa"
	"github.com/hupe1980/drometa/dimension"
	"github.com/hupe1980/drometa/metadata"
	"github.com/spf13/cobra"
)

type inspectFlags struct {
	filters []string
	groups  bool
}

func newInspectCmd(global *globalFlags) *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [dataset...]",
		Short: "Build datasets and print their dimensions, extrema and series",
		Long: `inspect builds the configured datasets and prints a summary of each.
Filters are applied before printing, in the form dim=value or dim=lo..hi,
for example --filter stress=0..0.5 --filter metric#histogram=2.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cat := e.catalog()
			if err := e.buildAll(cmd.Context(), cat); err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = cat.Names()
			}
			for _, name := range names {
				ds, ok := cat.Get(name)
				if !ok {
					return fmt.Errorf("unknown dataset %q", name)
				}
				for _, f := range flags.filters {
					key, filter, err := parseFilter(ds.Schema(), f)
					if err != nil {
						return err
					}
					if err := ds.Filter(key, filter); err != nil {
						return err
					}
				}
				printDataset(cmd.OutOrStdout(), ds, flags.groups)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&flags.filters, "filter", "f", nil, "filter to apply before printing (repeatable)")
	cmd.Flags().BoolVar(&flags.groups, "groups", false, "print the bins of every group")
	return cmd
}

func printDataset(w io.Writer, ds *drometa.Dataset, groups bool) {
	fmt.Fprintf(w, "dataset %s: %d records, %d active, bin count %d\n",
		ds.Name(), ds.Len(), ds.Active().Cardinality(), ds.BinCount())
	if filters := ds.Filters(); len(filters) > 0 {
		fmt.Fprintf(w, "filters: %v\n", filters)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tKIND\tMIN\tMAX")
	for _, k := range ds.Keys() {
		lo, hi := "-", "-"
		if e, ok := ds.Extrema(k); ok && !e.IsEmpty() {
			lo, hi = fmt.Sprint(e.Min), fmt.Sprint(e.Max)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", k, k.Kind, lo, hi)
	}
	tw.Flush()

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tSERIES")
	for _, h := range ds.Schema().Hyperparameters {
		if s, ok := ds.Series(h.Name); ok {
			fmt.Fprintf(tw, "%s\t%d\n", h.Name, s.Count)
		}
	}
	tw.Flush()

	if groups {
		fmt.Fprintln(w)
		printGroups(w, ds)
	}
	fmt.Fprintln(w)
}

func printGroups(w io.Writer, ds *drometa.Dataset) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tBIN\tCOUNT")
	for _, k := range ds.GroupKeys() {
		g, _ := ds.Group(k)
		for _, e := range g.All() {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", k, binLabel(e.Key), e.Value.Count)
		}
	}
	tw.Flush()
}

func binLabel(k dimension.BinKey) string {
	if k.Second.Kind == metadata.KindInvalid || k.Second.Kind == metadata.KindNull {
		return k.First.String()
	}
	return k.First.String() + "," + k.Second.String()
}
