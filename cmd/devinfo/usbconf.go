package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ardnew/devinfo/devtree"
	"github.com/ardnew/devinfo/pkg"
	"github.com/ardnew/devinfo/pkg/usbid"
	"github.com/ardnew/devinfo/usb"
)

// usbFlags are shared by the USB subcommands.
type usbFlags struct {
	usbids  string
	exclude []string
}

func (f *usbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.usbids, "usbids", "", "usb.ids database for names the devices do not report (default: search standard locations)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude-driver", usb.DefaultExcludedDrivers, "skip nodes bound to these drivers")
}

// scan returns the USB devices of the snapshot, with names filled from the
// usb.ids database where one is available.
func (f *usbFlags) scan(s *devtree.Snapshot) ([]usb.Device, error) {
	opts := []usb.Option{usb.WithExcludedDrivers(f.exclude...)}

	var db *usbid.Database
	if f.usbids != "" {
		db = usbid.New(f.usbids)
	} else {
		db = usbid.New()
	}
	switch err := db.Load(); {
	case err == nil:
		opts = append(opts, usb.WithNames(db))
	case errors.Is(err, usbid.ErrNotFound) && f.usbids == "":
		pkg.LogDebug(pkg.ComponentCLI, "no usb.ids database found")
	default:
		return nil, err
	}

	return usb.Scan(s, opts...)
}

func newUsbconfCommand(a *app) *cobra.Command {
	var uf usbFlags

	cmd := &cobra.Command{
		Use:   "usbconf",
		Short: "List attached USB devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return devtree.With(a.sys, func(s *devtree.Snapshot) error {
				devices, err := uf.scan(s)
				if err != nil {
					return err
				}
				printUsbconf(cmd.OutOrStdout(), devices)
				return nil
			})
		},
	}

	uf.register(cmd)
	return cmd
}

func printUsbconf(w io.Writer, devices []usb.Device) {
	for _, d := range devices {
		fmt.Fprintf(w, "%s: %-20s %-20s %s\n",
			d.ID(),
			usb.Display(d.VendorName),
			usb.Display(d.ProductName),
			usb.Display(d.Serial))
	}
}
