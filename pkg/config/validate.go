package config

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks the loaded config and returns every problem found, joined.
func (c *Config) Validate() error {
	var errs []string

	if c.Recovery.HeartbeatInterval < 0 {
		errs = append(errs, fmt.Sprintf("recovery.heartbeat_interval must be positive, got %d", c.Recovery.HeartbeatInterval))
	}
	if strings.TrimSpace(c.Recovery.OutputPath) == "" {
		errs = append(errs, "recovery.output_path must not be empty")
	}

	for name, d := range map[string]Duration{
		"timeouts.probe":   c.Timeouts.Probe,
		"timeouts.binwalk": c.Timeouts.Binwalk,
		"timeouts.extract": c.Timeouts.Extract,
		"timeouts.ocr":     c.Timeouts.OCR,
	} {
		if d < 0 {
			errs = append(errs, fmt.Sprintf("%s must not be negative", name))
		}
	}

	if c.Vision.ELAQuality < 1 || c.Vision.ELAQuality > 100 {
		errs = append(errs, fmt.Sprintf("vision.ela_quality must be in [1,100], got %d", c.Vision.ELAQuality))
	}
	if c.Vision.ObjectMinScore < 0 || c.Vision.ObjectMinScore > 1 {
		errs = append(errs, fmt.Sprintf("vision.object_min_score must be in [0,1], got %g", c.Vision.ObjectMinScore))
	}
	if c.Vision.MaxDetections < 1 {
		errs = append(errs, fmt.Sprintf("vision.max_detections must be >= 1, got %d", c.Vision.MaxDetections))
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Sprintf("batch.workers must be >= 1, got %d", c.Batch.Workers))
	}

	for tool, phrases := range c.Signals {
		for _, p := range phrases {
			if strings.TrimSpace(p) == "" {
				errs = append(errs, fmt.Sprintf("signals.%s contains an empty phrase", tool))
				break
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	// map iteration above is unordered
	sort.Strings(errs)
	return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
}

