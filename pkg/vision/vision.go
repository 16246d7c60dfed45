// Package vision runs image forensics: perceptual hashes, OCR, error level
// analysis, LSB statistics and object detection.
package vision

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"ImgOSINT/pkg/config"
	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
)

// Output file names, written under the configured output directory.
const (
	OCRFile     = "text.txt"
	ELAFile     = "ela.png"
	ObjectsFile = "objects_detected.jpg"
)

// Section names used in report Skipped/Errors maps.
const (
	SectionHashes  = "hashes"
	SectionOCR     = "ocr"
	SectionELA     = "ela"
	SectionLSB     = "lsb"
	SectionObjects = "objects"
)

// lsbFindingThreshold is the anomaly score above which LSB statistics are
// reported as a finding.
const lsbFindingThreshold = 0.5

// Options selects the sections to run.
type Options struct {
	Hashes  bool
	OCR     bool
	ELA     bool
	LSB     bool
	Objects bool
}

// DefaultOptions are the sections run when none are requested explicitly.
func DefaultOptions() Options {
	return Options{Hashes: true, OCR: true, ELA: true}
}

// AllOptions enables every section.
func AllOptions() Options {
	return Options{Hashes: true, OCR: true, ELA: true, LSB: true, Objects: true}
}

// Any reports whether at least one section is selected.
func (o Options) Any() bool {
	return o.Hashes || o.OCR || o.ELA || o.LSB || o.Objects
}

// Analyzer runs the selected sections against one image at a time.
type Analyzer struct {
	runner runner.Runner
	cfg    *config.Config
	logger *slog.Logger

	detectorOnce sync.Once
	detector     *ObjectDetector
	detectorErr  error
}

// New creates an Analyzer. The object detector is loaded on first use.
func New(r runner.Runner, cfg *config.Config) *Analyzer {
	return &Analyzer{runner: r, cfg: cfg, logger: logging.New("vision")}
}

// Close releases the object detector, if one was loaded.
func (a *Analyzer) Close() error {
	if a.detector != nil {
		return a.detector.Destroy()
	}
	return nil
}

// LoadImage opens and decodes path with every registered decoder.
func LoadImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", apperrors.Newf(apperrors.EFileNotFound, "file not found: %s", path)
		}
		return nil, "", apperrors.Wrap(apperrors.EFileUnreadable, "cannot open "+path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.EFileUnreadable, "cannot decode image "+path, err)
	}
	return img, format, nil
}

// Analyze runs the selected sections. Only an unreadable image is an error;
// a section that fails or cannot run is recorded in the report.
func (a *Analyzer) Analyze(ctx context.Context, path string, opts Options) (*models.VisionReport, error) {
	img, _, err := LoadImage(path)
	if err != nil {
		return nil, err
	}

	report := &models.VisionReport{
		Target:       path,
		Width:        img.Bounds().Dx(),
		Height:       img.Bounds().Dy(),
		AnalysisTime: time.Now(),
	}

	outDir := a.cfg.Vision.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.EInternal, "cannot create output directory "+outDir, err)
	}

	if opts.Hashes {
		if hashes, err := ComputeHashes(img); err != nil {
			report.Fail(SectionHashes, err)
		} else {
			report.Hashes = hashes
			report.Complete(SectionHashes)
		}
	}

	if opts.OCR {
		a.runOCR(ctx, path, outDir, report)
	}

	if opts.ELA {
		elaPath := filepath.Join(outDir, ELAFile)
		if maxDiff, err := SaveErrorLevel(img, a.cfg.Vision.ELAQuality, elaPath); err != nil {
			report.Fail(SectionELA, err)
		} else {
			report.ELAPath = elaPath
			report.ELAMaxDiff = maxDiff
			report.Complete(SectionELA)
		}
	}

	if opts.LSB {
		stats := AnalyzeLSB(img)
		report.LSB = stats
		report.Complete(SectionLSB)
		if stats.AnomalyScore >= lsbFindingThreshold {
			report.AddFinding("LSB distribution anomaly", stats.Confidence,
				fmt.Sprintf("anomaly score %.2f, mean LSB entropy %.4f", stats.AnomalyScore, stats.Entropy))
		}
	}

	if opts.Objects {
		a.runObjects(img, outDir, report)
	}

	report.AnalysisDuration = time.Since(report.AnalysisTime)
	a.logger.Info("vision finished", "target", path, "findings", len(report.Findings), "duration", report.AnalysisDuration)
	return report, nil
}

func (a *Analyzer) runObjects(img image.Image, outDir string, report *models.VisionReport) {
	a.detectorOnce.Do(func() {
		a.detector, a.detectorErr = LoadObjectDetector(a.cfg.Vision.ModelDir, a.cfg.Vision.MaxDetections)
	})
	if a.detectorErr != nil {
		a.logger.Debug("object detector unavailable", "error", a.detectorErr)
		report.Skip(SectionObjects, a.detectorErr.Error())
		return
	}

	detections, err := a.detector.Detect(img, a.cfg.Vision.ObjectMinScore)
	if err != nil {
		report.Fail(SectionObjects, err)
		return
	}
	report.Objects = detections
	if len(detections) == 0 {
		report.Complete(SectionObjects)
		return
	}

	annotated := filepath.Join(outDir, ObjectsFile)
	if err := SaveAnnotated(img, detections, annotated); err != nil {
		report.Fail(SectionObjects, err)
		return
	}
	report.ObjectsPath = annotated
	report.Complete(SectionObjects)
}
