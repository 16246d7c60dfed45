package render

import (
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/pipeline"
)

var stageTitles = map[string]string{
	"strings": "Checking for printable strings (first 20 lines):",
	"headers": "Scanning for embedded headers (JFIF/EXIF/PNG/ID3/PK):",
	"binwalk": "Running binwalk:",
	"zsteg":   "Running zsteg (PNG LSB analysis):",
}

func stageTitle(stage string) string {
	if t, ok := stageTitles[stage]; ok {
		return t
	}
	return "Running " + stage + ":"
}

// StegoObserver prints each stage as it starts and finishes, so a long scan
// shows progress.
type StegoObserver struct {
	p *Printer
}

var _ pipeline.Observer = (*StegoObserver)(nil)

// NewStegoObserver creates an observer printing through p.
func NewStegoObserver(p *Printer) *StegoObserver {
	return &StegoObserver{p: p}
}

func (o *StegoObserver) ProbeStarted(stage string) {
	o.p.Line("")
	o.p.Success("%s", stageTitle(stage))
}

func (o *StegoObserver) ProbeFinished(r models.ProbeResult) {
	o.p.probeBody(r)
}

func (o *StegoObserver) RecoveryStarted(mode models.RecoveryMode, outputPath string) {
	o.p.Line("")
	o.p.Success("Steghide extraction to: %s", outputPath)
	if mode == models.ModeWordlist {
		o.p.Info("Brute forcing with wordlist")
	}
}

func (o *StegoObserver) Heartbeat(tried int) {
	o.p.Info("…tried %d passwords", tried)
}

func (p *Printer) probeBody(r models.ProbeResult) {
	switch r.Status {
	case models.ProbeToolUnavailable:
		p.Warning("%s", r.Output)
	case models.ProbeError:
		p.Error("%s", r.Output)
	case models.ProbeNotApplicable:
		p.Info("%s", r.Output)
	default:
		p.Line(r.Output)
	}
}

// StegoHeader opens a stego analysis.
func (p *Printer) StegoHeader(target string) {
	p.Heading("Steganography Analysis for " + target)
}

// StegoReport prints a full report. With progressive set, the probe stages
// are assumed to be on screen already and only the outcome is printed.
func (p *Printer) StegoReport(r *models.AnalysisReport, progressive bool) {
	if !progressive {
		for _, probe := range r.Probes {
			p.Line("")
			p.Success("%s", stageTitle(probe.Stage))
			p.probeBody(probe)
		}
	}

	p.Line("")
	p.Recovery(r.Recovery)
	if n := r.SignalCount(); n > 0 {
		p.Warning("%d of %d stages reported a signal", n, len(r.Probes))
	}
	p.Line("")
	p.Success("%s", r.Message)
}

// Recovery prints the engine's verdict.
func (p *Printer) Recovery(res models.RecoveryResult) {
	switch {
	case res.Verdict == models.RecoverySucceeded:
		p.Alert("%s", res.Message)
		if res.ArtifactPath != "" {
			p.Success("Saved: %s", res.ArtifactPath)
		}
	case res.Verdict == models.RecoveryNotAttempted,
		res.Verdict == models.RecoveryFailed && res.Mode == models.ModeEmpty:
		p.Info("%s", res.Message)
	case res.Verdict == models.RecoveryToolUnavailable, res.Verdict == models.RecoveryCancelled:
		p.Warning("%s", res.Message)
	default:
		p.Error("%s", res.Message)
	}
}
