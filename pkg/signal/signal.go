// Package signal turns raw tool results into positive/negative evidence.
//
// External extractors disagree on where they report success: stdout, stderr,
// or only through the file they write. The artifact is checked first; known
// phrases are consulted only when no artifact exists.
package signal

import (
	"os"
	"strings"

	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
)

// CombinedOutput lowercases stdout and stderr joined by a newline.
func CombinedOutput(res runner.Result) string {
	return strings.ToLower(res.Stdout + "\n" + res.Stderr)
}

// ArtifactPresent reports whether path is a regular file with non-zero size.
func ArtifactPresent(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// Classifier decides whether combined tool output reports success.
type Classifier interface {
	// Match returns the matched phrase and true on a success signal.
	Match(combined string) (string, bool)
}

// Phrases is a Classifier over a fixed set of lowercase substrings.
type Phrases []string

// Match implements Classifier.
func (p Phrases) Match(combined string) (string, bool) {
	for _, phrase := range p {
		if phrase != "" && strings.Contains(combined, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// Evaluate applies the two-tier policy: artifact, then text, else none.
func Evaluate(artifactPath, combined string, cls Classifier) (models.Evidence, string) {
	if artifactPath != "" && ArtifactPresent(artifactPath) {
		return models.EvidenceArtifact, ""
	}
	if cls != nil {
		if phrase, ok := cls.Match(combined); ok {
			return models.EvidenceText, phrase
		}
	}
	return models.EvidenceNone, ""
}
