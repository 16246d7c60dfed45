package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ImgOSINT/pkg/filehandler"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
)

/*
Analyzer.go contains the interface and base implementation for probes.
Probe: one best-effort detection stage run against a file by an external tool.
BaseProbe: struct provides the name, description and format gate shared by probes.
Probes never return errors: a missing tool, a timeout or a spawn failure is
folded into the ProbeResult so the rest of the battery still runs.
*/

// Probe is the interface that all detection stages must implement
type Probe interface {
	// Name returns the stage name used in reports
	Name() string

	// Description returns a short description of what the stage looks for
	Description() string

	// SupportedFormats returns the file extensions this stage applies to.
	// An empty list means every file.
	SupportedFormats() []string

	// CanAnalyze checks if this stage applies to the given file
	CanAnalyze(filePath string) bool

	// Run executes the stage. It must not modify the target file.
	Run(ctx context.Context, filePath string) models.ProbeResult
}

// BaseProbe provides common functionality for probes
type BaseProbe struct {
	name        string
	description string
	formats     []string
}

// NewBaseProbe creates a new BaseProbe
func NewBaseProbe(name, description string, formats []string) BaseProbe {
	return BaseProbe{
		name:        name,
		description: description,
		formats:     formats,
	}
}

// Name returns the probe name
func (b *BaseProbe) Name() string {
	return b.name
}

// Description returns the probe description
func (b *BaseProbe) Description() string {
	return b.description
}

// SupportedFormats returns the supported extensions
func (b *BaseProbe) SupportedFormats() []string {
	return b.formats
}

// CanAnalyze checks if the probe supports the file's extension
func (b *BaseProbe) CanAnalyze(filePath string) bool {
	if len(b.formats) == 0 {
		return true
	}
	ext := filehandler.Ext(filePath)
	for _, f := range b.formats {
		if f == ext {
			return true
		}
	}
	return false
}

// failure folds a runner error into a stage result.
func failure(stage, tool string, err error) models.ProbeResult {
	if errors.Is(err, runner.ErrToolUnavailable) {
		return models.ProbeResult{
			Stage:  stage,
			Status: models.ProbeToolUnavailable,
			Output: fmt.Sprintf("%s not installed; skipping.", tool),
			Detail: err.Error(),
		}
	}
	return models.ProbeResult{
		Stage:  stage,
		Status: models.ProbeError,
		Output: fmt.Sprintf("%s error: %v", tool, err),
		Detail: err.Error(),
	}
}

// nonEmptyLines splits s into lines, dropping blank ones.
func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// firstOutput returns trimmed stdout, or trimmed stderr when stdout is empty.
func firstOutput(res runner.Result) string {
	if out := strings.TrimSpace(res.Stdout); out != "" {
		return out
	}
	return strings.TrimSpace(res.Stderr)
}
