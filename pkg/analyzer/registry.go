package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/models"
)

// Observer receives stage events while the battery runs.
type Observer interface {
	ProbeStarted(stage string)
	ProbeFinished(result models.ProbeResult)
}

// Battery is an ordered container of probes. Registration order is run order.
type Battery struct {
	probes []Probe
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewBattery creates an empty battery
func NewBattery() *Battery {
	return &Battery{logger: logging.New("battery")}
}

// Register appends a probe to the battery
func (b *Battery) Register(p Probe) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probes = append(b.probes, p)
}

// Probes returns the registered probes in run order
func (b *Battery) Probes() []Probe {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]Probe(nil), b.probes...)
}

// Names returns the stage names in run order
func (b *Battery) Names() []string {
	probes := b.Probes()
	names := make([]string, len(probes))
	for i, p := range probes {
		names[i] = p.Name()
	}
	return names
}

// Run executes every stage in order against filePath. Every stage produces
// exactly one result; no stage outcome stops the others. obs may be nil.
func (b *Battery) Run(ctx context.Context, filePath string, obs Observer) []models.ProbeResult {
	probes := b.Probes()
	results := make([]models.ProbeResult, 0, len(probes))

	for _, p := range probes {
		if obs != nil {
			obs.ProbeStarted(p.Name())
		}

		var res models.ProbeResult
		if !p.CanAnalyze(filePath) {
			res = models.ProbeResult{
				Stage:  p.Name(),
				Status: models.ProbeNotApplicable,
				Output: fmt.Sprintf("%s skipped (applies to %s only).", p.Name(), strings.Join(p.SupportedFormats(), ", ")),
			}
		} else {
			start := time.Now()
			res = p.Run(ctx, filePath)
			res.Stage = p.Name()
			res.Duration = time.Since(start)
		}

		b.logger.Debug("probe finished", "stage", res.Stage, "status", res.Status, "duration", res.Duration)
		results = append(results, res)
		if obs != nil {
			obs.ProbeFinished(res)
		}
	}

	return results
}
