package extractor

import (
	"context"

	"ImgOSINT/pkg/models"
)

// DataExtractor is the interface that all passphrase-protected extractors
// must implement.
type DataExtractor interface {
	// Name returns the name of the extractor
	Name() string

	// SupportedFormats returns the lowercase extensions (".jpg") this
	// extractor accepts as containers
	SupportedFormats() []string

	// Attempt tries one passphrase against filePath, writing any payload to
	// outputPath. A rejected passphrase is a failed attempt, not an error.
	// The error is non-nil only when the attempt could not be made at all
	// (binary missing, caller cancelled).
	Attempt(ctx context.Context, filePath, passphrase, outputPath string) (models.ExtractionAttempt, error)
}

// BaseExtractor provides common functionality for extractors
type BaseExtractor struct {
	name    string
	formats []string
}

// NewBaseExtractor creates a new BaseExtractor
func NewBaseExtractor(name string, formats []string) BaseExtractor {
	return BaseExtractor{
		name:    name,
		formats: formats,
	}
}

// Name returns the extractor name
func (b *BaseExtractor) Name() string {
	return b.name
}

// SupportedFormats returns the supported extensions
func (b *BaseExtractor) SupportedFormats() []string {
	return b.formats
}
