package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
)

// StringsPreviewLines bounds how many printable-string lines are reported.
const StringsPreviewLines = 20

// StringsProbe runs a printable-string scan over the raw file. Nearly every
// binary has printable runs, so the stage is informational: it shows a
// preview and never counts as a signal on its own.
type StringsProbe struct {
	BaseProbe
	runner  runner.Runner
	tool    string
	timeout time.Duration
}

// NewStringsProbe creates the printable-string stage.
func NewStringsProbe(r runner.Runner, tool string, timeout time.Duration) *StringsProbe {
	return &StringsProbe{
		BaseProbe: NewBaseProbe("strings", "Printable strings (first 20 lines)", nil),
		runner:    r,
		tool:      tool,
		timeout:   timeout,
	}
}

// Run implements Probe.
func (p *StringsProbe) Run(ctx context.Context, filePath string) models.ProbeResult {
	res, err := p.runner.Run(ctx, runner.Command{
		Name:    p.tool,
		Args:    []string{filePath},
		Timeout: p.timeout,
	})
	if err != nil {
		return failure(p.Name(), p.tool, err)
	}

	lines := nonEmptyLines(res.Stdout)
	if len(lines) == 0 {
		if res.ExitCode != 0 && strings.TrimSpace(res.Stderr) != "" {
			return models.ProbeResult{
				Status: models.ProbeError,
				Output: fmt.Sprintf("%s error: %s", p.tool, strings.TrimSpace(res.Stderr)),
				Detail: fmt.Sprintf("exit status %d", res.ExitCode),
			}
		}
		return models.ProbeResult{Status: models.ProbeNoSignal, Output: "No strings found."}
	}

	shown := lines
	if len(shown) > StringsPreviewLines {
		shown = shown[:StringsPreviewLines]
	}
	detail := fmt.Sprintf("%d of %d lines shown", len(shown), len(lines))
	if res.Truncated {
		detail += " (output capped)"
	}
	return models.ProbeResult{
		Status: models.ProbeNoSignal,
		Output: strings.Join(shown, "\n"),
		Detail: detail,
	}
}
