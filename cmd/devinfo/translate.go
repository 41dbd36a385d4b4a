package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ardnew/devinfo/devtree"
)

func newTranslateCommand(a *app) *cobra.Command {
	var (
		drivers   []string
		instances uint32
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Map disk driver instances to disk names",
		Long: `Print the disk name, such as c1t0d0, of every instance of the given
disk drivers that the instance map knows about.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := devtree.NewTranslator(a.sys)
			if err != nil {
				return err
			}
			defer tr.Close()

			w := cmd.OutOrStdout()
			for _, drv := range drivers {
				for inst := uint32(0); inst < instances; inst++ {
					if name, ok := tr.LookupDiskName(drv, inst); ok {
						fmt.Fprintf(w, "%s%d -> %s\n", drv, inst, name)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&drivers, "driver", []string{"blkdev", "sd"}, "disk drivers to translate")
	cmd.Flags().Uint32Var(&instances, "instances", 64, "number of instances to try per driver")
	return cmd
}
