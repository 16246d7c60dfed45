package vision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
)

// ExtractText runs the OCR engine over path and returns the recognised text.
func (a *Analyzer) ExtractText(ctx context.Context, path string) (string, error) {
	tool := a.cfg.Tools.Tesseract
	res, err := a.runner.Run(ctx, runner.Command{
		Name:    tool,
		Args:    []string{path, "stdout"},
		Timeout: a.cfg.Timeouts.OCR.Std(),
	})
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%s exited %d: %s", tool, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}

func (a *Analyzer) runOCR(ctx context.Context, path, outDir string, report *models.VisionReport) {
	text, err := a.ExtractText(ctx, path)
	if errors.Is(err, runner.ErrToolUnavailable) {
		report.Skip(SectionOCR, a.cfg.Tools.Tesseract+" not installed")
		return
	}
	if err != nil {
		report.Fail(SectionOCR, err)
		return
	}

	report.OCRText = strings.TrimSpace(text)
	if report.OCRText == "" {
		report.Complete(SectionOCR)
		return
	}

	textPath := filepath.Join(outDir, OCRFile)
	if err := os.WriteFile(textPath, []byte(text), 0o644); err != nil {
		report.Fail(SectionOCR, fmt.Errorf("save text: %w", err))
		return
	}
	report.OCRPath = textPath
	report.Complete(SectionOCR)
}
