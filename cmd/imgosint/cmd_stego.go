package main

import (
	"github.com/spf13/cobra"

	"ImgOSINT/pkg/filehandler"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/pipeline"
	"ImgOSINT/pkg/render"
)

type stegoOpts struct {
	password string
	wordlist string
	encoding string
	output   string
}

// bindFlags registers the recovery flags shared by stego, analyze and scan.
func (o *stegoOpts) bindFlags(cmd *cobra.Command, outputHelp string) {
	cmd.Flags().StringVarP(&o.password, "password", "p", "", "steghide passphrase to try")
	cmd.Flags().StringVarP(&o.wordlist, "wordlist", "w", "", "passphrase list, one per line")
	cmd.Flags().StringVar(&o.encoding, "wordlist-encoding", string(filehandler.EncodingRaw), "how wordlist lines are read: raw (bytes as-is) or latin1")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", outputHelp)
}

// request builds the pipeline request for target, falling back to the
// configured output path.
func (o stegoOpts) request(a *app, target string) (pipeline.Request, error) {
	enc, err := filehandler.ParseWordlistEncoding(o.encoding)
	if err != nil {
		return pipeline.Request{}, err
	}
	out := o.output
	if out == "" {
		out = a.cfg.Recovery.OutputPath
	}
	return pipeline.Request{
		Target:       target,
		Passphrase:   o.password,
		Wordlist:     o.wordlist,
		OutputPath:   out,
		UniqueOutput: a.cfg.Recovery.UniqueOutput,

		WordlistEncoding: enc,
	}, nil
}

func newStegoCmd(a *app) *cobra.Command {
	var opts stegoOpts

	cmd := &cobra.Command{
		Use:   "stego <path|url>",
		Short: "Probe a file for hidden content and try steghide recovery",
		Long: `Run the probe battery (strings, embedded headers, binwalk, zsteg) and,
for JPEG, BMP, WAV and AU files, try steghide extraction.

Recovery uses --password if given, otherwise every line of --wordlist,
otherwise the empty password. A recovered payload is written to --output.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.resolveTarget(args[0])
			if err != nil {
				return err
			}
			_, err = a.runStego(cmd, target, opts)
			return err
		},
	}

	opts.bindFlags(cmd, "where a recovered payload is written (default from config)")

	return cmd
}

// runStego prints the analysis as it progresses and returns the report.
func (a *app) runStego(cmd *cobra.Command, target string, opts stegoOpts) (*models.AnalysisReport, error) {
	req, err := opts.request(a, target)
	if err != nil {
		return nil, err
	}

	a.printer.StegoHeader(target)
	coordinator := pipeline.NewDefault(a.runner, a.cfg)
	report, err := coordinator.Analyze(cmd.Context(), req, render.NewStegoObserver(a.printer))
	if err != nil {
		return nil, err
	}

	a.printer.StegoReport(report, true)
	return report, nil
}
