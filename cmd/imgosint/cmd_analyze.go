package main

import (
	"github.com/spf13/cobra"

	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/vision"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var opts stegoOpts

	cmd := &cobra.Command{
		Use:   "analyze <path|url>",
		Short: "Run EXIF, stego and vision analyses in turn",
		Long: `Run exif, stego and vision (hashes, OCR, ELA) against one target.
A failing analysis is reported and the next one still runs; the command
fails only when all three do.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.resolveTarget(args[0])
			if err != nil {
				return err
			}

			log := logging.New("cli")
			failed := 0
			record := func(name string, err error) {
				if err == nil {
					return
				}
				failed++
				log.Warn("analysis failed", "analysis", name, "target", target, "error", err)
				a.printer.Error("%s failed: %v", name, err)
			}

			record("exif", a.runExif(target))
			_, err = a.runStego(cmd, target, opts)
			record("stego", err)
			record("vision", a.runVision(cmd.Context(), target, vision.DefaultOptions()))

			if failed == 3 {
				return apperrors.Newf(apperrors.EAnalysisFailed, "every analysis failed for %s", target)
			}
			return nil
		},
	}

	opts.bindFlags(cmd, "where a recovered payload is written (default from config)")

	return cmd
}
