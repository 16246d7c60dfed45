package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/filehandler"
	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
	"ImgOSINT/pkg/signal"
)

// DefaultHeartbeatInterval is the number of failed candidates between
// heartbeats when none is configured.
const DefaultHeartbeatInterval = 500

// Request describes one recovery run.
type Request struct {
	File       string
	Passphrase string // tried alone when non-empty
	Wordlist   string // streamed when Passphrase is empty

	// WordlistEncoding selects how wordlist lines become passphrases.
	// The zero value passes the file bytes through unchanged.
	WordlistEncoding filehandler.WordlistEncoding

	// OutputPath is removed before every attempt and left in place on
	// success. Concurrent runs must not share it.
	OutputPath string
}

// HeartbeatFunc is told how many candidates have been tried so far.
type HeartbeatFunc func(tried int)

// Engine picks a credential source for a request and drives the extractor
// until a terminal verdict is reached.
type Engine struct {
	registry  *Registry
	heartbeat int
	logger    *slog.Logger
}

// NewEngine creates an engine over the given extractors. interval <= 0 uses
// DefaultHeartbeatInterval.
func NewEngine(reg *Registry, interval int) *Engine {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Engine{registry: reg, heartbeat: interval, logger: logging.New("recovery")}
}

// Eligible reports whether any extractor accepts the file.
func (e *Engine) Eligible(filePath string) bool {
	return e.registry.Eligible(filePath)
}

// Mode returns the credential source a request selects. A passphrase wins,
// then a wordlist; with neither the empty passphrase is tried.
func Mode(req Request) models.RecoveryMode {
	switch {
	case req.Passphrase != "":
		return models.ModePassphrase
	case req.Wordlist != "":
		return models.ModeWordlist
	default:
		return models.ModeEmpty
	}
}

// Recover runs the state machine for req. It never returns a Go error:
// every outcome, including a missing extractor binary, is a verdict.
// onHeartbeat may be nil.
func (e *Engine) Recover(ctx context.Context, req Request, onHeartbeat HeartbeatFunc) models.RecoveryResult {
	candidates := e.registry.ExtractorsFor(req.File)
	if len(candidates) == 0 {
		return models.RecoveryResult{
			Verdict: models.RecoveryNotAttempted,
			Message: "extraction not attempted (unsupported format). Use " + e.formatList() + ".",
		}
	}
	ex := candidates[0]

	run := &recoveryRun{
		engine: e,
		ex:     ex,
		req:    req,
		result: models.RecoveryResult{Mode: Mode(req), Extractor: ex.Name()},
	}
	e.logger.Info("recovery started", "file", req.File, "mode", run.result.Mode, "extractor", ex.Name())

	switch run.result.Mode {
	case models.ModePassphrase:
		run.single(ctx, req.Passphrase)
	case models.ModeWordlist:
		run.wordlist(ctx, onHeartbeat)
	default:
		run.single(ctx, "")
	}

	e.logger.Info("recovery finished", "file", req.File, "verdict", run.result.Verdict, "attempts", run.result.Attempts)
	return run.result
}

func (e *Engine) formatList() string {
	formats := e.registry.SupportedFormats()
	for i, f := range formats {
		formats[i] = strings.ToUpper(strings.TrimPrefix(f, "."))
	}
	return strings.Join(formats, "/")
}

// recoveryRun is the mutable state of one Recover call.
type recoveryRun struct {
	engine *Engine
	ex     DataExtractor
	req    Request
	result models.RecoveryResult
}

// try makes one attempt and records it. It returns false when the run must
// stop because the attempt could not be made.
func (r *recoveryRun) try(ctx context.Context, passphrase string) (models.ExtractionAttempt, bool) {
	attempt, err := r.ex.Attempt(ctx, r.req.File, passphrase, r.req.OutputPath)
	if err != nil {
		r.abort(ctx, err)
		return attempt, false
	}
	r.result.Attempts++
	r.result.LastAttempt = &attempt
	r.engine.logger.Debug("attempt", "n", r.result.Attempts, "outcome", attempt.Outcome)
	return attempt, true
}

func (r *recoveryRun) abort(ctx context.Context, err error) {
	switch {
	case errors.Is(err, runner.ErrToolUnavailable):
		r.result.Verdict = models.RecoveryToolUnavailable
		r.result.Message = r.ex.Name() + " not installed; extraction skipped."
	case ctx.Err() != nil:
		r.result.Verdict = models.RecoveryCancelled
		r.result.Message = fmt.Sprintf("Cancelled after %d attempts.", r.result.Attempts)
	default:
		r.result.Verdict = models.RecoveryError
		r.result.Message = err.Error()
	}
}

func (r *recoveryRun) succeed(passphrase string) {
	r.result.Verdict = models.RecoverySucceeded
	r.result.Credential = passphrase
	r.result.CredentialFound = true
	if signal.ArtifactPresent(r.req.OutputPath) {
		r.result.ArtifactPath = r.req.OutputPath
	}
}

// single covers both the supplied passphrase and the empty one.
func (r *recoveryRun) single(ctx context.Context, passphrase string) {
	attempt, ok := r.try(ctx, passphrase)
	if !ok {
		return
	}
	if attempt.Succeeded() {
		r.succeed(passphrase)
		if passphrase == "" {
			r.result.Message = "Extracted with empty password"
		} else {
			r.result.Message = "Extracted with provided password: " + passphrase
		}
		return
	}

	r.result.Verdict = models.RecoveryFailed
	if passphrase == "" {
		r.result.Message = "No password/wordlist provided and empty password failed."
	} else {
		r.result.Message = "Password failed. Detail: " + attempt.Output
	}
}

func (r *recoveryRun) wordlist(ctx context.Context, onHeartbeat HeartbeatFunc) {
	wl, err := filehandler.OpenWordlist(r.req.Wordlist, r.req.WordlistEncoding)
	if err != nil {
		r.result.Verdict = models.RecoveryInputError
		if apperrors.GetCode(err) == apperrors.EWordlistNotFound {
			r.result.Message = "Wordlist not found: " + r.req.Wordlist
		} else {
			r.result.Message = err.Error()
		}
		return
	}
	defer wl.Close()

	for {
		if ctx.Err() != nil {
			r.abort(ctx, ctx.Err())
			return
		}
		candidate, more := wl.Next()
		if !more {
			break
		}

		attempt, ok := r.try(ctx, candidate)
		if !ok {
			return
		}
		if attempt.Succeeded() {
			r.succeed(candidate)
			r.result.Message = "Password found: " + candidate
			return
		}

		if r.result.Attempts%r.engine.heartbeat == 0 {
			r.engine.logger.Info("still trying", "tried", r.result.Attempts)
			if onHeartbeat != nil {
				onHeartbeat(r.result.Attempts)
			}
		}
	}

	if err := wl.Err(); err != nil {
		r.result.Verdict = models.RecoveryError
		r.result.Message = fmt.Sprintf("wordlist read failed after %d attempts: %v", r.result.Attempts, err)
		return
	}
	r.result.Verdict = models.RecoveryExhausted
	r.result.Message = fmt.Sprintf("No working password in wordlist (tried %d).", r.result.Attempts)
}
