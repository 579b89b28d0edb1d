package main

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/hupe1980/drometa/catalog"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, restore and list dataset snapshots",
	}
	cmd.AddCommand(
		newSnapshotSaveCmd(global),
		newSnapshotLoadCmd(global),
		newSnapshotListCmd(global),
	)
	return cmd
}

func newSnapshotSaveCmd(global *globalFlags) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Build every configured dataset and save a snapshot of each",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := newEnv(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			m, err := e.manager(ctx)
			if err != nil {
				return err
			}
			cat := e.catalog(catalog.WithManager(m))
			if err := e.buildAll(ctx, cat); err != nil {
				return err
			}

			blobs, err := cat.Save(ctx)
			if err != nil {
				return err
			}
			for _, name := range cat.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, blobs[name])
				if !prune {
					continue
				}
				n, err := m.Prune(ctx, name)
				if err != nil {
					return fmt.Errorf("prune %s: %w", name, err)
				}
				e.logger.InfoContext(ctx, "pruned snapshots", "dataset", name, "removed", n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "delete snapshots that are no longer current")
	return cmd
}

func newSnapshotLoadCmd(global *globalFlags) *cobra.Command {
	var groups bool

	cmd := &cobra.Command{
		Use:   "load [dataset...]",
		Short: "Restore the current snapshots and print them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := newEnv(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			m, err := e.manager(ctx)
			if err != nil {
				return err
			}
			cat := e.catalog(catalog.WithManager(m))
			if err := cat.Load(ctx); err != nil {
				return err
			}

			names := cat.Names()
			for _, name := range args {
				if !slices.Contains(names, name) {
					return fmt.Errorf("no snapshot for dataset %q", name)
				}
			}
			if len(args) > 0 {
				names = args
			}
			for _, name := range names {
				ds, _ := cat.Get(name)
				printDataset(cmd.OutOrStdout(), ds, groups)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&groups, "groups", false, "print the bins of every group")
	return cmd
}

func newSnapshotListCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current snapshot of every dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := newEnv(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			m, err := e.manager(ctx)
			if err != nil {
				return err
			}
			manifest, err := m.Manifest(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "manifest version %d\n", manifest.Version)
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATASET\tSNAPSHOT")
			for _, name := range slices.Sorted(maps.Keys(manifest.Snapshots)) {
				fmt.Fprintf(tw, "%s\t%s\n", name, manifest.Snapshots[name])
			}
			return tw.Flush()
		},
	}
}
