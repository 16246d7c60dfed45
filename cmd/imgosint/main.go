// imgosint probes images for hidden content, recovers steghide payloads,
// reads EXIF metadata and runs image forensics.
//
// Usage:
//
//	imgosint stego <path|url> [--password P] [--wordlist W] [--output F]
//	imgosint exif <path|url>
//	imgosint vision <path|url> [--hashes --ocr --ela --lsb --objects | --all]
//	imgosint analyze <path|url>
//	imgosint scan <dir> [--workers N]
//	imgosint serve
package main

import (
	"context"
	"io"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"

	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/runner"
)

func main() {
	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, runner.NewExecRunner(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line against r and returns the process exit code.
func run(ctx context.Context, r runner.Runner, args []string, stdout, stderr io.Writer) int {
	a := newApp(r)
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// cobra reports unknown subcommands as plain errors
		if apperrors.GetCode(err) == "" && strings.HasPrefix(err.Error(), "unknown command") {
			err = apperrors.Wrap(apperrors.EUsage, err.Error(), err)
		}
		apperrors.Print(stderr, err, a.opts.verbose)
		return apperrors.ExitCode(err)
	}
	return 0
}
