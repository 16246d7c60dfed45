package render

import (
	"fmt"
	"sort"

	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/vision"
)

// Exif prints every tag, or says there were none.
func (p *Printer) Exif(r *models.ExifReport) {
	if !r.HasTags() {
		p.Error("%s!", r.Message)
		return
	}

	p.Success("EXIF Data Found:")
	for _, tag := range r.Tags {
		fmt.Fprintf(p.w, "%s: %s\n", infoColor(tag.Name), tag.Value)
	}
	if r.GPS != nil {
		p.Alert("GPS position: %.6f, %.6f", r.GPS.Latitude, r.GPS.Longitude)
	}
	if r.TakenAt != nil {
		p.Info("Taken at: %s", r.TakenAt.Format("2006-01-02 15:04:05"))
	}
	for _, w := range r.Warnings {
		p.Warning("%s", w)
	}
}

// Vision prints the sections present in the report.
func (p *Printer) Vision(r *models.VisionReport) {
	p.Info("Image: %s (%dx%d)", r.Target, r.Width, r.Height)

	if r.Hashes != nil {
		p.Heading("Image Hashes")
		p.Line("aHash: " + r.Hashes.Average)
		p.Line("pHash: " + r.Hashes.Perception)
		p.Line("dHash: " + r.Hashes.Difference)
	}

	if r.Ran(vision.SectionOCR) {
		p.Heading("Extracted Text (OCR)")
		if r.OCRText == "" {
			p.Error("No text detected")
		} else {
			p.Line(r.OCRText)
			p.Success("Saved extracted text to %s", r.OCRPath)
		}
	}

	if r.ELAPath != "" {
		p.Heading("ELA Output")
		p.Line("Saved to: " + r.ELAPath)
	}

	if r.LSB != nil {
		p.Heading("LSB Statistics")
		p.Line(fmt.Sprintf("Mean entropy: %.4f", r.LSB.Entropy))
		p.Line(fmt.Sprintf("Anomaly score: %.2f (confidence %.2f)", r.LSB.AnomalyScore, r.LSB.Confidence))
	}

	if r.Ran(vision.SectionObjects) {
		p.Heading("Object Detection")
		if len(r.Objects) == 0 {
			p.Error("No objects detected")
		}
		for _, d := range r.Objects {
			p.Success("%s: %.2f at (%d,%d)-(%d,%d)", d.Label, d.Score, d.MinX, d.MinY, d.MaxX, d.MaxY)
		}
		if r.ObjectsPath != "" {
			p.Success("Saved output with objects highlighted: %s", r.ObjectsPath)
		}
	}

	if len(r.Findings) > 0 {
		p.Heading("Findings")
		for i, f := range r.Findings {
			fmt.Fprintf(p.w, "%d. %s (Confidence: %.2f)\n", i+1, f.Description, f.Confidence)
			if f.Details != "" {
				fmt.Fprintf(p.w, "   Details: %s\n", f.Details)
			}
		}
	}

	for _, section := range sortedKeys(r.Skipped) {
		p.Warning("%s skipped: %s", section, r.Skipped[section])
	}
	for _, section := range sortedKeys(r.Errors) {
		p.Error("%s failed: %s", section, r.Errors[section])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
