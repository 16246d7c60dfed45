package extractor

import (
	"ImgOSINT/pkg/config"
	"ImgOSINT/pkg/runner"
	"ImgOSINT/pkg/signal"
)

// NewDefaultRegistry registers steghide with the success phrases known to
// phrases, extended by any configured for it.
func NewDefaultRegistry(r runner.Runner, cfg *config.Config, phrases *signal.Registry) *Registry {
	for tool, extra := range cfg.Signals {
		phrases.Register(tool, extra...)
	}

	reg := NewRegistry()
	reg.Register(NewSteghideExtractor(r, cfg.Tools.Steghide, cfg.Timeouts.Extract.Std(), phrases.Classifier("steghide")))
	return reg
}
