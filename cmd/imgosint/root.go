package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"ImgOSINT/pkg/config"
	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/filehandler"
	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/render"
	"ImgOSINT/pkg/runner"
)

// version is set at build time via -ldflags.
var version = "dev"

type globalOpts struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool
	verbose    bool
}

// app carries what every subcommand needs once the global flags are parsed.
type app struct {
	opts    globalOpts
	runner  runner.Runner
	cfg     *config.Config
	printer *render.Printer
	stderr  io.Writer
}

func newApp(r runner.Runner) *app {
	return &app{runner: r}
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgosint",
		Short: "Image OSINT: steganography probing, EXIF and image forensics",
		Long: `imgosint inspects images and other media for hidden content.

It runs a battery of probes (strings, embedded headers, binwalk, zsteg),
tries steghide recovery with a password, a wordlist or the empty password,
reads EXIF metadata and runs image forensics (hashes, OCR, ELA, LSB, objects).
Targets may be local paths or http(s) URLs.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", config.DefaultPath, "config file (YAML)")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	flags.StringVar(&a.opts.logFormat, "log-format", "", "log format: text or json (default from config)")
	flags.BoolVar(&a.opts.noColor, "no-color", false, "disable coloured output")
	flags.BoolVar(&a.opts.verbose, "verbose", false, "show error causes")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.Wrap(apperrors.EUsage, err.Error(), err)
	})

	rootCmd.AddCommand(
		newStegoCmd(a),
		newExifCmd(a),
		newVisionCmd(a),
		newAnalyzeCmd(a),
		newScanCmd(a),
		newServeCmd(a),
		newFormatsCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return apperrors.Wrap(apperrors.EConfigInvalid, "cannot load config "+a.opts.configPath, err)
	}
	if a.opts.logLevel != "" {
		cfg.Logging.Level = a.opts.logLevel
	}
	if a.opts.logFormat != "" {
		cfg.Logging.Format = a.opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return apperrors.Wrap(apperrors.EConfigInvalid, "invalid config", err)
	}

	a.cfg = cfg
	a.stderr = cmd.ErrOrStderr()
	logging.Init(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, a.stderr)

	if a.opts.noColor {
		render.DisableColor()
	}
	a.printer = render.NewPrinter(cmd.OutOrStdout())
	return nil
}

// resolveTarget downloads URL targets into the work directory and returns
// the local path to analyze.
func (a *app) resolveTarget(target string) (string, error) {
	if !filehandler.IsURL(target) {
		return target, nil
	}
	a.printer.Info("Downloading from %s", target)
	path, err := filehandler.DownloadFromURL(target, filepath.Join(a.cfg.WorkDir, "downloads"))
	if err != nil {
		return "", err
	}
	size, err := filehandler.GetFileSize(path)
	if err != nil {
		return "", apperrors.Wrap(apperrors.EDownloadFailed, "downloaded file vanished: "+path, err)
	}
	a.printer.Success("Downloaded to %s (%d bytes)", path, size)
	return path, nil
}

// exactArgs is cobra.ExactArgs with a usage error code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return apperrors.Newf(apperrors.EUsage, "%s: expected %d argument(s), got %d\nusage: %s",
				cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return apperrors.New(apperrors.EUsage, fmt.Sprintf("%s takes no arguments", cmd.Name()))
	}
	return nil
}
