package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
	"ImgOSINT/pkg/signal"
)

// SteghideFormats are the containers steghide can embed into.
var SteghideFormats = []string{".jpg", ".jpeg", ".bmp", ".wav", ".au"}

// SteghideExtractor drives `steghide extract` for one passphrase at a time.
type SteghideExtractor struct {
	BaseExtractor
	runner     runner.Runner
	tool       string
	timeout    time.Duration
	classifier signal.Classifier
	logger     *slog.Logger
}

// NewSteghideExtractor creates the steghide extractor. The classifier
// recognises success phrases in steghide's output.
func NewSteghideExtractor(r runner.Runner, tool string, timeout time.Duration, cls signal.Classifier) *SteghideExtractor {
	return &SteghideExtractor{
		BaseExtractor: NewBaseExtractor("steghide", SteghideFormats),
		runner:        r,
		tool:          tool,
		timeout:       timeout,
		classifier:    cls,
		logger:        logging.New("steghide"),
	}
}

// Attempt implements DataExtractor.
func (s *SteghideExtractor) Attempt(ctx context.Context, filePath, passphrase, outputPath string) (models.ExtractionAttempt, error) {
	attempt := models.ExtractionAttempt{Passphrase: passphrase}

	// A leftover file from an earlier run would read as success.
	if err := os.Remove(outputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("could not remove stale artifact", "path", outputPath, "error", err)
	}

	res, err := s.runner.Run(ctx, runner.Command{
		Name:    s.tool,
		Args:    []string{"extract", "-sf", filePath, "-p", passphrase, "-xf", outputPath, "-f"},
		Timeout: s.timeout,
	})
	switch {
	case errors.Is(err, runner.ErrToolUnavailable):
		return attempt, err
	case err != nil && ctx.Err() != nil:
		return attempt, ctx.Err()
	case errors.Is(err, runner.ErrTimeout):
		// A hung extraction counts against this candidate only.
		attempt.Outcome = models.OutcomeFailure
		attempt.Evidence = models.EvidenceNone
		attempt.Output = fmt.Sprintf("%s timed out after %s", s.tool, s.timeout)
		return attempt, nil
	case err != nil:
		return attempt, fmt.Errorf("%s extract: %w", s.tool, err)
	}

	combined := signal.CombinedOutput(res)
	evidence, phrase := signal.Evaluate(outputPath, combined, s.classifier)
	attempt.Evidence = evidence
	attempt.Phrase = phrase
	if evidence == models.EvidenceNone {
		attempt.Outcome = models.OutcomeFailure
		attempt.Output = strings.TrimSpace(combined)
	} else {
		attempt.Outcome = models.OutcomeSuccess
	}

	s.logger.Debug("attempt finished", "outcome", attempt.Outcome, "evidence", attempt.Evidence, "exit", res.ExitCode)
	return attempt, nil
}
