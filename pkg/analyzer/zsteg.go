package analyzer

import (
	"context"
	"time"

	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
)

// ZstegProbe runs the bit-plane (LSB) scanner. It applies to PNG only and is
// skipped when the scanner is not installed.
type ZstegProbe struct {
	BaseProbe
	runner  runner.Runner
	tool    string
	timeout time.Duration
}

// NewZstegProbe creates the bit-plane stage.
func NewZstegProbe(r runner.Runner, tool string, timeout time.Duration) *ZstegProbe {
	return &ZstegProbe{
		BaseProbe: NewBaseProbe("zsteg", "PNG LSB analysis", []string{".png"}),
		runner:    r,
		tool:      tool,
		timeout:   timeout,
	}
}

// Run implements Probe.
func (p *ZstegProbe) Run(ctx context.Context, filePath string) models.ProbeResult {
	if _, err := p.runner.LookPath(p.tool); err != nil {
		return failure(p.Name(), p.tool, err)
	}

	res, err := p.runner.Run(ctx, runner.Command{
		Name:    p.tool,
		Args:    []string{filePath},
		Timeout: p.timeout,
	})
	if err != nil {
		return failure(p.Name(), p.tool, err)
	}

	if out := firstOutput(res); out != "" {
		return models.ProbeResult{Status: models.ProbeSignalFound, Output: out}
	}
	return models.ProbeResult{Status: models.ProbeNoSignal, Output: "No hidden data found by zsteg."}
}
