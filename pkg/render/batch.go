package render

import (
	"fmt"

	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/pipeline"
)

// BatchSummary counts the outcomes of a directory scan and lists the files
// worth a closer look.
func (p *Printer) BatchSummary(results []pipeline.BatchResult) {
	var clean, suspicious, recovered, failed int
	var flagged, payloads []*models.AnalysisReport

	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case res.Report.Recovery.Verdict == models.RecoverySucceeded:
			recovered++
			payloads = append(payloads, res.Report)
		case res.Report.SignalCount() > 0:
			suspicious++
			flagged = append(flagged, res.Report)
		default:
			clean++
		}
	}

	p.Heading("Analysis Summary")
	fmt.Fprintf(p.w, "Total files analyzed: %d\n", len(results))
	p.Success("Clean files: %d", clean)

	if suspicious > 0 {
		p.Warning("Files with signals: %d", suspicious)
		for _, r := range flagged {
			fmt.Fprintf(p.w, "- %s (%d of %d stages)\n", r.Target, r.SignalCount(), len(r.Probes))
		}
	}

	if recovered > 0 {
		p.Alert("Payloads recovered: %d", recovered)
		for _, r := range payloads {
			fmt.Fprintf(p.w, "- %s -> %s\n", r.Target, r.Recovery.ArtifactPath)
		}
	}

	if failed > 0 {
		p.Error("Files that could not be analyzed: %d", failed)
		for _, res := range results {
			if res.Err != nil {
				fmt.Fprintf(p.w, "- %s: %v\n", res.Target, res.Err)
			}
		}
	}
}
