package models

import (
	"time"
)

// ProbeStatus classifies the outcome of one probe stage.
type ProbeStatus string

const (
	ProbeSignalFound     ProbeStatus = "signal-found"
	ProbeNoSignal        ProbeStatus = "no-signal"
	ProbeToolUnavailable ProbeStatus = "tool-unavailable" // stage skipped, binary missing
	ProbeError           ProbeStatus = "error"            // spawn failure, timeout, cancel
	ProbeNotApplicable   ProbeStatus = "not-applicable"   // format gate excluded the stage
)

// ProbeResult is produced once per stage per run and never mutated afterwards.
type ProbeResult struct {
	Stage    string        `json:"stage"`
	Status   ProbeStatus   `json:"status"`
	Output   string        `json:"output"`           // bounded tool output, or the stage sentinel
	Detail   string        `json:"detail,omitempty"` // why a stage was skipped or errored
	Duration time.Duration `json:"duration"`
}

// Outcome of a single extraction attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Evidence names what made an attempt count as a success.
type Evidence string

const (
	EvidenceArtifact Evidence = "artifact" // output file present and non-empty
	EvidenceText     Evidence = "text"     // known success phrase in tool output
	EvidenceNone     Evidence = "none"
)

// ExtractionAttempt records one passphrase tried against the target.
type ExtractionAttempt struct {
	Passphrase string   `json:"passphrase"`
	Outcome    Outcome  `json:"outcome"`
	Evidence   Evidence `json:"evidence"`
	Phrase     string   `json:"phrase,omitempty"` // matched phrase for EvidenceText
	Output     string   `json:"output,omitempty"` // lowercase combined output kept on failure
}

// Succeeded reports whether the attempt recovered the payload.
func (a ExtractionAttempt) Succeeded() bool { return a.Outcome == OutcomeSuccess }

// RecoveryVerdict is the terminal state of the credential recovery engine.
type RecoveryVerdict string

const (
	RecoveryNotAttempted    RecoveryVerdict = "not-attempted"    // container not supported by any extractor
	RecoverySucceeded       RecoveryVerdict = "succeeded"        // payload recovered
	RecoveryFailed          RecoveryVerdict = "failed"           // single passphrase or empty passphrase rejected
	RecoveryExhausted       RecoveryVerdict = "exhausted"        // every wordlist candidate rejected
	RecoveryInputError      RecoveryVerdict = "input-error"      // wordlist missing or unreadable
	RecoveryToolUnavailable RecoveryVerdict = "tool-unavailable" // extractor binary missing
	RecoveryCancelled       RecoveryVerdict = "cancelled"        // caller aborted between candidates
	RecoveryError           RecoveryVerdict = "error"            // wordlist read failed mid-stream
)

// RecoveryMode is the credential source the engine used.
type RecoveryMode string

const (
	ModeNone       RecoveryMode = ""
	ModePassphrase RecoveryMode = "passphrase"
	ModeWordlist   RecoveryMode = "wordlist"
	ModeEmpty      RecoveryMode = "empty-passphrase"
)

// RecoveryResult is the engine's report. It keeps only the last attempt and
// a count, never the full candidate history.
type RecoveryResult struct {
	Verdict         RecoveryVerdict    `json:"verdict"`
	Mode            RecoveryMode       `json:"mode,omitempty"`
	Extractor       string             `json:"extractor,omitempty"`
	Credential      string             `json:"credential,omitempty"`
	CredentialFound bool               `json:"credentialFound"`
	ArtifactPath    string             `json:"artifactPath,omitempty"`
	Attempts        int                `json:"attempts"`
	LastAttempt     *ExtractionAttempt `json:"lastAttempt,omitempty"`
	Message         string             `json:"message"`
}

// AnalysisReport contains the results of a full stego analysis of one file.
type AnalysisReport struct {
	Target    string         `json:"target"`
	Format    string         `json:"format"`
	Probes    []ProbeResult  `json:"probes"`
	Eligible  bool           `json:"eligible"`
	Recovery  RecoveryResult `json:"recovery"`
	Message   string         `json:"message"`
	StartedAt time.Time      `json:"startedAt"`
	Duration  time.Duration  `json:"duration"`
}

// AddProbe appends a stage outcome in run order.
func (r *AnalysisReport) AddProbe(p ProbeResult) {
	r.Probes = append(r.Probes, p)
}

// Probe returns the result for the named stage.
func (r *AnalysisReport) Probe(stage string) (ProbeResult, bool) {
	for _, p := range r.Probes {
		if p.Stage == stage {
			return p, true
		}
	}
	return ProbeResult{}, false
}

// SignalCount counts stages that reported a positive signal.
func (r *AnalysisReport) SignalCount() int {
	n := 0
	for _, p := range r.Probes {
		if p.Status == ProbeSignalFound {
			n++
		}
	}
	return n
}
