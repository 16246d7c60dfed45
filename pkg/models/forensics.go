package models

import (
	"time"
)

// ExifTag is one decoded metadata field.
type ExifTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// GPSPosition is the decoded camera location, when present.
type GPSPosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ExifReport contains every EXIF tag found in a file, sorted by name.
type ExifReport struct {
	Target   string       `json:"target"`
	Tags     []ExifTag    `json:"tags"`
	GPS      *GPSPosition `json:"gps,omitempty"`
	TakenAt  *time.Time   `json:"takenAt,omitempty"`
	Message  string       `json:"message"`
	Warnings []string     `json:"warnings,omitempty"` // non-fatal decode problems
}

// HasTags reports whether any metadata was found.
func (r *ExifReport) HasTags() bool { return len(r.Tags) > 0 }

// Finding represents a specific detection or discovery during analysis
type Finding struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"` // 0.0-1.0
	Details     string  `json:"details"`
}

// ImageHashes holds perceptual hashes as 16 hex digits each.
type ImageHashes struct {
	Average    string `json:"aHash"`
	Perception string `json:"pHash"`
	Difference string `json:"dHash"`
}

// LSBStats summarises the least significant bit distribution per channel.
type LSBStats struct {
	AnomalyScore float64            `json:"anomalyScore"` // 0.0-1.0, higher is more suspicious
	Entropy      float64            `json:"entropy"`      // mean RGB LSB entropy
	Confidence   float64            `json:"confidence"`
	ChannelStats map[string]float64 `json:"channelStats"`
}

// Detection is one object found by the detector, in source image pixels.
type Detection struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	MinX  int     `json:"minX"`
	MinY  int     `json:"minY"`
	MaxX  int     `json:"maxX"`
	MaxY  int     `json:"maxY"`
}

// VisionReport contains the results of the image forensics sections that
// were requested. A section that could not run records why in Skipped or
// Errors instead of failing the report.
type VisionReport struct {
	Target string `json:"target"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	Hashes *ImageHashes `json:"hashes,omitempty"`

	OCRText string `json:"ocrText,omitempty"`
	OCRPath string `json:"ocrPath,omitempty"`

	ELAPath    string `json:"elaPath,omitempty"`
	ELAMaxDiff uint8  `json:"elaMaxDiff,omitempty"`

	LSB *LSBStats `json:"lsb,omitempty"`

	Objects     []Detection `json:"objects,omitempty"`
	ObjectsPath string      `json:"objectsPath,omitempty"`

	Sections []string          `json:"sections"` // sections that completed, in run order
	Findings []Finding         `json:"findings,omitempty"`
	Skipped  map[string]string `json:"skipped,omitempty"` // section -> reason
	Errors   map[string]string `json:"errors,omitempty"`  // section -> error

	AnalysisTime     time.Time     `json:"analysisTime"`
	AnalysisDuration time.Duration `json:"analysisDuration"`
}

// AddFinding adds a finding to the report
func (r *VisionReport) AddFinding(description string, confidence float64, details string) {
	r.Findings = append(r.Findings, Finding{
		Description: description,
		Confidence:  confidence,
		Details:     details,
	})
}

// Complete records that section ran to completion.
func (r *VisionReport) Complete(section string) {
	r.Sections = append(r.Sections, section)
}

// Ran reports whether section completed.
func (r *VisionReport) Ran(section string) bool {
	for _, s := range r.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// Skip records that section did not run.
func (r *VisionReport) Skip(section, reason string) {
	if r.Skipped == nil {
		r.Skipped = make(map[string]string)
	}
	r.Skipped[section] = reason
}

// Fail records that section ran and failed.
func (r *VisionReport) Fail(section string, err error) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[section] = err.Error()
}
