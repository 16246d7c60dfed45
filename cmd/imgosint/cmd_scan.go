package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/filehandler"
	"ImgOSINT/pkg/pipeline"
	"ImgOSINT/pkg/progress"
)

const scanBar = "scan"

func newScanCmd(a *app) *cobra.Command {
	var opts stegoOpts
	var workers int

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Run the stego analysis over every supported file in a directory",
		Long: `Walk a directory and run the stego analysis on every file with a
supported extension, several at a time. Each recovered payload gets its own
file next to --output. A summary lists the files with signals.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers == 0 {
				workers = a.cfg.Batch.Workers
			}
			if workers < 1 {
				return apperrors.Newf(apperrors.EUsage, "--workers must be at least 1, got %d", workers)
			}

			tmpl, err := opts.request(a, "")
			if err != nil {
				return err
			}

			files, err := filehandler.FilesInDirectory(args[0], filehandler.SupportedExtensions())
			if err != nil {
				return apperrors.Wrap(apperrors.EFileNotFound, "cannot scan "+args[0], err)
			}
			a.printer.Info("Analyzing directory: %s", args[0])
			a.printer.Info("Found %d files to analyze", len(files))
			if len(files) == 0 {
				return nil
			}

			tracker := progress.NewTracker(a.stderr, 100*time.Millisecond)
			tracker.Start(scanBar, fmt.Sprintf("0/%d files", len(files)))
			done := 0
			onDone := func(res pipeline.BatchResult) {
				done++
				tracker.Update(scanBar, float64(done)*100/float64(len(files)), fmt.Sprintf("%d/%d files", done, len(files)))
			}

			coordinator := pipeline.NewDefault(a.runner, a.cfg)
			results := coordinator.AnalyzeBatch(cmd.Context(), files, tmpl, workers, onDone)
			tracker.Complete(scanBar, fmt.Sprintf("%d files analyzed", len(results)))

			a.printer.BatchSummary(results)
			return cmd.Context().Err()
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "files analyzed at the same time (default from config)")
	opts.bindFlags(cmd, "template path for recovered payloads (default from config)")

	return cmd
}
