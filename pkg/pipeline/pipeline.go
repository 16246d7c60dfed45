// Package pipeline runs the probe battery and then the recovery engine
// against one target and assembles the report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"ImgOSINT/pkg/analyzer"
	"ImgOSINT/pkg/config"
	"ImgOSINT/pkg/extractor"
	"ImgOSINT/pkg/filehandler"
	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
	"ImgOSINT/pkg/signal"
)

// CompleteMessage closes every finished analysis.
const CompleteMessage = "Stego analysis complete."

// Observer receives progress events for one analysis.
type Observer interface {
	analyzer.Observer
	RecoveryStarted(mode models.RecoveryMode, outputPath string)
	Heartbeat(tried int)
}

// Request describes one analysis.
type Request struct {
	Target     string
	Passphrase string
	Wordlist   string

	WordlistEncoding filehandler.WordlistEncoding

	// OutputPath receives the recovered payload. Two analyses running at
	// the same time must not share it; set UniqueOutput to allocate a fresh
	// name in the same directory instead.
	OutputPath   string
	UniqueOutput bool
}

// Coordinator ties the battery and the engine together.
type Coordinator struct {
	battery *analyzer.Battery
	engine  *extractor.Engine
	logger  *slog.Logger
}

// New creates a coordinator from its parts.
func New(battery *analyzer.Battery, engine *extractor.Engine) *Coordinator {
	return &Coordinator{battery: battery, engine: engine, logger: logging.New("pipeline")}
}

// NewDefault wires the standard battery and steghide engine over r.
func NewDefault(r runner.Runner, cfg *config.Config) *Coordinator {
	reg := extractor.NewDefaultRegistry(r, cfg, signal.NewRegistry())
	return New(
		analyzer.NewDefaultBattery(r, cfg),
		extractor.NewEngine(reg, cfg.Recovery.HeartbeatInterval),
	)
}

// Analyze probes req.Target and, when the container is eligible, attempts
// recovery. Only a missing or unreadable target is returned as an error;
// everything else is folded into the report. obs may be nil.
func (c *Coordinator) Analyze(ctx context.Context, req Request, obs Observer) (*models.AnalysisReport, error) {
	if err := filehandler.CheckTarget(req.Target); err != nil {
		return nil, err
	}

	report := &models.AnalysisReport{
		Target:    req.Target,
		Format:    detectFormat(req.Target),
		StartedAt: time.Now(),
	}

	for _, p := range c.battery.Run(ctx, req.Target, obs) {
		report.AddProbe(p)
	}

	report.Eligible = c.engine.Eligible(req.Target)
	if !report.Eligible {
		report.Recovery = c.engine.Recover(ctx, extractor.Request{File: req.Target}, nil)
	} else {
		out, err := outputPath(req)
		if err != nil {
			return nil, err
		}
		er := extractor.Request{
			File:       req.Target,
			Passphrase: req.Passphrase,
			Wordlist:   req.Wordlist,
			OutputPath: out,

			WordlistEncoding: req.WordlistEncoding,
		}
		var beat extractor.HeartbeatFunc
		if obs != nil {
			obs.RecoveryStarted(extractor.Mode(er), out)
			beat = obs.Heartbeat
		}
		report.Recovery = c.engine.Recover(ctx, er, beat)
	}

	report.Message = CompleteMessage
	report.Duration = time.Since(report.StartedAt)
	c.logger.Info("analysis finished",
		"target", req.Target,
		"signals", report.SignalCount(),
		"verdict", report.Recovery.Verdict,
		"duration", report.Duration)

	return report, nil
}

func outputPath(req Request) (string, error) {
	out := req.OutputPath
	if out == "" {
		out = config.Default().Recovery.OutputPath
	}
	if !req.UniqueOutput {
		return out, nil
	}
	ext := filepath.Ext(out)
	prefix := filepath.Base(out[:len(out)-len(ext)])
	path, err := filehandler.UniqueOutputPath(filepath.Dir(out), prefix, ext)
	if err != nil {
		return "", fmt.Errorf("allocate output path: %w", err)
	}
	return path, nil
}

func detectFormat(path string) string {
	format, err := filehandler.DetectFileFormat(path)
	if err != nil || format == "" {
		return "unknown"
	}
	return format
}
