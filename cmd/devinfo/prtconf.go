package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ardnew/devinfo/devtree"
)

func newPrtconfCommand(a *app) *cobra.Command {
	var (
		root  string
		prune []string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "prtconf",
		Short: "Print the device tree hierarchy",
		Long: `Print every node of the device tree, indented by depth, with its
driver binding. The children of the pseudo nexus are omitted by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []devtree.Option{devtree.WithRoot(root)}
			if force {
				opts = append(opts, devtree.WithForceLoad())
			}
			return devtree.With(a.sys, func(s *devtree.Snapshot) error {
				return printTree(cmd.OutOrStdout(), s, prune)
			}, opts...)
		},
	}

	cmd.Flags().StringVar(&root, "root", devtree.DefaultRoot, "physical path of the subtree to print")
	cmd.Flags().StringSliceVar(&prune, "prune", []string{"pseudo"}, "node names whose children are omitted")
	cmd.Flags().BoolVar(&force, "force-load", false, "attach all drivers before capturing the tree")
	return cmd
}

func printTree(w io.Writer, s *devtree.Snapshot, prune []string) error {
	unattached := color.New(color.FgYellow)

	walk := s.WalkNodes()
	for n, err := range walk.All() {
		if err != nil {
			return err
		}

		indent := strings.Repeat("    ", n.Depth()-1)
		if inst, ok := n.Instance(); ok {
			drv, _ := n.DriverName()
			fmt.Fprintf(w, "%s%s, instance #%d (driver name: %s)\n", indent, n.Name(), inst, drv)
		} else {
			fmt.Fprintf(w, "%s%s ", indent, n.Name())
			unattached.Fprintln(w, "(driver not attached)")
		}

		for _, name := range prune {
			if n.Name() == name {
				walk.SkipChildren()
				break
			}
		}
	}
	return nil
}
