package main

import (
	"context"

	"github.com/spf13/cobra"

	"ImgOSINT/pkg/vision"
)

func newVisionCmd(a *app) *cobra.Command {
	var opts vision.Options
	var all bool

	cmd := &cobra.Command{
		Use:   "vision <path|url>",
		Short: "Run image forensics: hashes, OCR, ELA, LSB statistics, objects",
		Long: `Run the selected image forensics sections. With no section flags,
hashes, OCR and ELA run. Output files (text.txt, ela.png,
objects_detected.jpg) are written to vision.output_dir.

OCR needs the tesseract binary. Object detection needs the ONNX runtime
and mobilenet_ssd.onnx in vision.model_dir; either missing skips the section.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.resolveTarget(args[0])
			if err != nil {
				return err
			}
			if all {
				opts = vision.AllOptions()
			} else if !opts.Any() {
				opts = vision.DefaultOptions()
			}
			return a.runVision(cmd.Context(), target, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Hashes, "hashes", false, "compute aHash, pHash and dHash")
	cmd.Flags().BoolVar(&opts.OCR, "ocr", false, "extract text with tesseract")
	cmd.Flags().BoolVar(&opts.ELA, "ela", false, "write an error level analysis image")
	cmd.Flags().BoolVar(&opts.LSB, "lsb", false, "compute LSB bit-plane statistics")
	cmd.Flags().BoolVar(&opts.Objects, "objects", false, "detect objects with the ONNX model")
	cmd.Flags().BoolVar(&all, "all", false, "run every section")

	return cmd
}

func (a *app) runVision(ctx context.Context, target string, opts vision.Options) error {
	analyzer := vision.New(a.runner, a.cfg)
	defer analyzer.Close()

	report, err := analyzer.Analyze(ctx, target, opts)
	if err != nil {
		return err
	}
	a.printer.Heading("Image Forensics for " + target)
	a.printer.Vision(report)
	return nil
}
