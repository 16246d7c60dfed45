package main

import (
	"github.com/spf13/cobra"

	"ImgOSINT/pkg/exif"
)

func newExifCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exif <path|url>",
		Short: "Print every EXIF tag in an image",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.resolveTarget(args[0])
			if err != nil {
				return err
			}
			return a.runExif(target)
		},
	}
}

func (a *app) runExif(target string) error {
	report, err := exif.Extract(target)
	if err != nil {
		return err
	}
	a.printer.Heading("EXIF Metadata for " + target)
	a.printer.Exif(report)
	return nil
}
