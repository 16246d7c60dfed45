package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
)

// HeaderMarkers are the format signatures searched for in printable strings.
var HeaderMarkers = []string{"JFIF", "EXIF", "PNG", "ID3", "PK"}

// HeaderProbe pipes the printable-string scan through a case-insensitive
// filter for embedded format markers.
type HeaderProbe struct {
	BaseProbe
	runner      runner.Runner
	stringsTool string
	filterTool  string // grep on POSIX hosts, findstr on Windows
	goos        string
	timeout     time.Duration
}

// NewHeaderProbe creates the header-signature stage for goos.
func NewHeaderProbe(r runner.Runner, stringsTool, filterTool, goos string, timeout time.Duration) *HeaderProbe {
	return &HeaderProbe{
		BaseProbe:   NewBaseProbe("headers", "Embedded headers ("+strings.Join(HeaderMarkers, "/")+")", nil),
		runner:      r,
		stringsTool: stringsTool,
		filterTool:  filterTool,
		goos:        goos,
		timeout:     timeout,
	}
}

// CommandLine builds the platform-specific pipeline for filePath.
func (p *HeaderProbe) CommandLine(filePath string) string {
	scan := runner.Join(p.goos, p.stringsTool, filePath)
	if p.goos == "windows" {
		return fmt.Sprintf(`%s | %s /i "%s"`, scan, runner.Quote(p.goos, p.filterTool), strings.Join(HeaderMarkers, " "))
	}
	return fmt.Sprintf("%s | %s -iE '%s'", scan, runner.Quote(p.goos, p.filterTool), strings.Join(HeaderMarkers, "|"))
}

// Run implements Probe.
func (p *HeaderProbe) Run(ctx context.Context, filePath string) models.ProbeResult {
	// A shell pipeline hides which side is missing, so check both up front.
	for _, tool := range []string{p.stringsTool, p.filterTool} {
		if _, err := p.runner.LookPath(tool); err != nil {
			return failure(p.Name(), tool, err)
		}
	}

	res, err := p.runner.Run(ctx, runner.Command{
		Shell:   p.CommandLine(filePath),
		Timeout: p.timeout,
	})
	if err != nil {
		return failure(p.Name(), p.filterTool, err)
	}

	if matches := nonEmptyLines(res.Stdout); len(matches) > 0 {
		return models.ProbeResult{
			Status: models.ProbeSignalFound,
			Output: strings.TrimSpace(strings.Join(matches, "\n")),
			Detail: fmt.Sprintf("%d matching lines", len(matches)),
		}
	}

	// grep and findstr exit 1 on "no match"; anything above that is a failure.
	if res.ExitCode > 1 && strings.TrimSpace(res.Stderr) != "" {
		return models.ProbeResult{
			Status: models.ProbeError,
			Output: fmt.Sprintf("header scan error: %s", strings.TrimSpace(res.Stderr)),
			Detail: fmt.Sprintf("exit status %d", res.ExitCode),
		}
	}
	return models.ProbeResult{Status: models.ProbeNoSignal, Output: "No embedded headers found."}
}
