package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ardnew/devinfo/devtree"
	"github.com/ardnew/devinfo/usb"
)

func newUsbloomsCommand(a *app) *cobra.Command {
	var (
		uf    usbFlags
		looms string
	)

	cmd := &cobra.Command{
		Use:   "usblooms",
		Short: "Match attached USB devices to looms",
		Long: `Assign each attached USB device to the loom slot with the same vendor
ID, product ID, and serial number. Looms with at least one attached device
are printed with their empty slots marked MISSING; unassigned devices are
printed as spares.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs := usb.DefaultLooms()
			if looms != "" {
				var err error
				if defs, err = usb.LoadLoomsFile(looms); err != nil {
					return err
				}
			}

			return devtree.With(a.sys, func(s *devtree.Snapshot) error {
				devices, err := uf.scan(s)
				if err != nil {
					return err
				}
				printLooms(cmd.OutOrStdout(), usb.Match(defs, devices))
				return nil
			})
		},
	}

	uf.register(cmd)
	cmd.Flags().StringVar(&looms, "looms", "", "YAML loom definitions (default: built-in set)")
	return cmd
}

func printLooms(w io.Writer, r usb.Report) {
	heading := color.New(color.Bold)
	missing := color.New(color.FgRed)

	for _, m := range r.Looms {
		heading.Fprintf(w, "LOOM %q\n", m.Loom.ID)
		for _, a := range m.Slots {
			if a.Device == nil {
				fmt.Fprintf(w, "    %s: ", a.Slot.Name)
				missing.Fprintln(w, "MISSING")
				continue
			}
			fmt.Fprintf(w, "    %s: %s\n", a.Slot.Name, a.Device.Path)
			printIdentity(w, *a.Device)
		}
	}

	heading.Fprintln(w, "SPARE DEVICES:")
	for _, d := range r.Spares {
		fmt.Fprintf(w, "    %s\n", d.Path)
		printIdentity(w, d)
	}
}

func printIdentity(w io.Writer, d usb.Device) {
	fmt.Fprintf(w, "    %s: %s %s (%s)\n", d.ID(), d.VendorName, d.ProductName, d.Serial)
}
