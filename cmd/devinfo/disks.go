package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ardnew/devinfo/devtree"
)

func newDisksCommand(a *app) *cobra.Command {
	var makeLinks bool

	cmd := &cobra.Command{
		Use:   "disks",
		Short: "List raw disk minor nodes and their /dev links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []devtree.LinkOption
			if makeLinks {
				opts = append(opts, devtree.WithMakeLinks())
			}
			links, err := devtree.NewDevLinks(a.sys, opts...)
			if err != nil {
				return err
			}
			defer links.Close()

			return devtree.With(a.sys, func(s *devtree.Snapshot) error {
				return printDisks(cmd.OutOrStdout(), s, links)
			})
		},
	}

	cmd.Flags().BoolVar(&makeLinks, "make-links", false, "run devfsadm to create missing links first")
	return cmd
}

func printDisks(w io.Writer, s *devtree.Snapshot, links *devtree.DevLinks) error {
	for n, err := range s.WalkNodes().All() {
		if err != nil {
			return err
		}

		minors := n.Minors()
		for {
			m, err := minors.Next()
			if errors.Is(err, devtree.Done) {
				break
			}
			if err != nil {
				return err
			}
			if !m.IsRawDisk() {
				continue
			}

			path, err := m.DevfsPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: %s\n", m.NodeType(), path)

			ls, err := links.LinksForPath(path)
			if err != nil {
				return err
			}
			for _, l := range ls {
				fmt.Fprintf(w, "    %q (%s)\n", l.Path, l.Type)
			}
		}
	}
	return nil
}
