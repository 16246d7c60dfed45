package analyzer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
)

// BinwalkProbe runs the binary signature scanner over the raw file.
type BinwalkProbe struct {
	BaseProbe
	runner  runner.Runner
	tool    string
	timeout time.Duration
}

// NewBinwalkProbe creates the binary-signature stage.
func NewBinwalkProbe(r runner.Runner, tool string, timeout time.Duration) *BinwalkProbe {
	return &BinwalkProbe{
		BaseProbe: NewBaseProbe("binwalk", "Embedded file signatures", nil),
		runner:    r,
		tool:      tool,
		timeout:   timeout,
	}
}

// Run implements Probe.
func (p *BinwalkProbe) Run(ctx context.Context, filePath string) models.ProbeResult {
	res, err := p.runner.Run(ctx, runner.Command{
		Name:    p.tool,
		Args:    []string{filePath},
		Timeout: p.timeout,
	})
	if err != nil {
		return failure(p.Name(), p.tool, err)
	}

	// binwalk always prints its table header; only offset rows are findings.
	rows := signatureRows(res.Stdout)
	if len(rows) > 0 {
		return models.ProbeResult{
			Status: models.ProbeSignalFound,
			Output: strings.TrimSpace(res.Stdout),
			Detail: fmt.Sprintf("%d signatures", len(rows)),
		}
	}

	if res.ExitCode != 0 && strings.TrimSpace(res.Stderr) != "" {
		return models.ProbeResult{
			Status: models.ProbeError,
			Output: fmt.Sprintf("%s error: %s", p.tool, strings.TrimSpace(res.Stderr)),
			Detail: fmt.Sprintf("exit status %d", res.ExitCode),
		}
	}
	return models.ProbeResult{Status: models.ProbeNoSignal, Output: "No signatures found."}
}

// signatureRows returns the lines whose first field is a decimal offset.
func signatureRows(out string) []string {
	var rows []string
	for _, line := range nonEmptyLines(out) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if _, err := strconv.ParseUint(fields[0], 10, 64); err == nil {
			rows = append(rows, line)
		}
	}
	return rows
}
