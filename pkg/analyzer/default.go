package analyzer

import (
	"runtime"

	"ImgOSINT/pkg/config"
	"ImgOSINT/pkg/runner"
)

// NewDefaultBattery registers the standard stages in their fixed order:
// strings, headers, binwalk, zsteg.
func NewDefaultBattery(r runner.Runner, cfg *config.Config) *Battery {
	return newDefaultBattery(r, cfg, runtime.GOOS)
}

func newDefaultBattery(r runner.Runner, cfg *config.Config, goos string) *Battery {
	filter := cfg.Tools.Grep
	if goos == "windows" {
		filter = cfg.Tools.Findstr
	}

	b := NewBattery()
	b.Register(NewStringsProbe(r, cfg.Tools.Strings, cfg.Timeouts.Probe.Std()))
	b.Register(NewHeaderProbe(r, cfg.Tools.Strings, filter, goos, cfg.Timeouts.Probe.Std()))
	b.Register(NewBinwalkProbe(r, cfg.Tools.Binwalk, cfg.Timeouts.Binwalk.Std()))
	b.Register(NewZstegProbe(r, cfg.Tools.Zsteg, cfg.Timeouts.Probe.Std()))
	return b
}
