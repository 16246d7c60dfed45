package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"ImgOSINT/pkg/analyzer"
	"ImgOSINT/pkg/extractor"
	"ImgOSINT/pkg/filehandler"
	"ImgOSINT/pkg/signal"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the file formats scanned, the probe stages and the formats eligible for recovery",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := extractor.NewDefaultRegistry(a.runner, a.cfg, signal.NewRegistry())

			a.printer.Heading("Scanned formats")
			exts := filehandler.SupportedExtensions()
			sort.Strings(exts)
			for _, ext := range exts {
				a.printer.Line("- " + ext + ": " + filehandler.SupportedFormats[ext])
			}

			a.printer.Heading("Probe stages")
			for _, probe := range analyzer.NewDefaultBattery(a.runner, a.cfg).Probes() {
				line := "- " + probe.Name() + ": " + probe.Description()
				if only := probe.SupportedFormats(); len(only) > 0 {
					line += " (" + strings.Join(only, ", ") + " only)"
				}
				a.printer.Line(line)
			}

			a.printer.Heading("Recovery")
			for _, ext := range reg.SupportedFormats() {
				var names []string
				for _, e := range reg.ExtractorsFor("file" + ext) {
					names = append(names, e.Name())
				}
				a.printer.Line("- " + ext + ": " + strings.Join(names, ", "))
			}
			return nil
		},
	}
}
