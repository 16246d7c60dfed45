package vision

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ImgOSINT/pkg/config"
	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/models"
	"ImgOSINT/pkg/runner"
	"ImgOSINT/pkg/runner/runnertest"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func noise(w, h int) *image.RGBA {
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.IntN(256))
		img.Pix[i+1] = uint8(rng.IntN(256))
		img.Pix[i+2] = uint8(rng.IntN(256))
		img.Pix[i+3] = 255
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Vision.OutputDir = filepath.Join(t.TempDir(), "out")
	return cfg
}

func TestComputeHashes(t *testing.T) {
	a, err := ComputeHashes(gradient(64, 64))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeHashes(gradient(64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("identical images hash differently:\n%s", diff)
	}
	for _, h := range []string{a.Average, a.Perception, a.Difference} {
		if len(h) != 16 || strings.Trim(h, "0123456789abcdef") != "" {
			t.Errorf("hash %q is not 16 hex digits", h)
		}
	}
}

func TestErrorLevel(t *testing.T) {
	src := gradient(40, 30)
	ela, maxDiff, err := ErrorLevel(src, 90)
	if err != nil {
		t.Fatal(err)
	}
	if ela.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Errorf("bounds = %v", ela.Bounds())
	}

	var brightest uint8
	for i := 0; i < len(ela.Pix); i += 4 {
		brightest = max(brightest, ela.Pix[i], ela.Pix[i+1], ela.Pix[i+2])
		if ela.Pix[i+3] != 255 {
			t.Fatal("ELA output must be opaque")
		}
	}
	if maxDiff > 0 && brightest != 255 {
		t.Errorf("largest difference %d scaled to %d, want 255", maxDiff, brightest)
	}
}

func TestBrighten(t *testing.T) {
	tests := []struct {
		v     uint8
		scale float64
		want  uint8
	}{
		{0, 10, 0},
		{10, 25.5, 255},
		{200, 2, 255},
		{3, 1, 3},
	}
	for _, tt := range tests {
		if got := brighten(tt.v, tt.scale); got != tt.want {
			t.Errorf("brighten(%d, %v) = %d, want %d", tt.v, tt.scale, got, tt.want)
		}
	}
}

func TestAnalyzeLSB(t *testing.T) {
	// Even values everywhere: the low bit never varies.
	flat := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := range flat.Pix {
		flat.Pix[i] = 128
	}
	if s := AnalyzeLSB(flat); s.Entropy != 0 || s.AnomalyScore > 0.5 {
		t.Errorf("flat image: entropy %v anomaly %v", s.Entropy, s.AnomalyScore)
	}

	s := AnalyzeLSB(noise(200, 200))
	if s.Entropy < 0.99 || s.AnomalyScore < 0.9 {
		t.Errorf("noise image: entropy %v anomaly %v", s.Entropy, s.AnomalyScore)
	}
	if s.ChannelStats["A"] != 0 || s.ChannelStats["A_zeros"] != 0 {
		t.Errorf("opaque alpha should have zero LSB entropy: %v", s.ChannelStats)
	}
}

func TestBinaryEntropy(t *testing.T) {
	if got := binaryEntropy(0.5, 0.5); got != 1 {
		t.Errorf("even split = %v, want 1", got)
	}
	if got := binaryEntropy(1, 0); got != 0 {
		t.Errorf("certain outcome = %v, want 0", got)
	}
}

func TestParseDetections(t *testing.T) {
	raw := []float32{
		0, 15, 0.92, 0.1, 0.2, 0.5, 0.75, // person
		0, 12, 0.35, 0.0, 0.0, 1.0, 1.0, // below threshold
		0, 0, 0.99, 0.0, 0.0, 1.0, 1.0, // background: dropped
		0, 7, 0.55, -0.1, 0.5, 1.2, 1.0, // car, clamped
		-1, 0, 0, 0, 0, 0, 0, // padding
		0, 99, 0.9, 0, 0, 1, 1, // unknown class
	}

	got := parseDetections(raw, 200, 100, 0.4)

	want := []models.Detection{
		{Label: "person", Score: float64(float32(0.92)), MinX: 20, MinY: 20, MaxX: 100, MaxY: 75},
		{Label: "car", Score: float64(float32(0.55)), MinX: 0, MinY: 50, MaxX: 200, MaxY: 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("detections mismatch (-want +got):\n%s", diff)
	}
}

func TestFillBlob(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	dst := make([]float32, 3*ssdInputSize*ssdInputSize)
	fillBlob(img, dst)

	want := (255 - ssdMean) * ssdScale
	for _, i := range []int{0, ssdInputSize * ssdInputSize, len(dst) - 1} {
		if math.Abs(float64(dst[i])-want) > 1e-4 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}
}

func TestSaveAnnotated(t *testing.T) {
	path := filepath.Join(t.TempDir(), ObjectsFile)
	dets := []models.Detection{{Label: "dog", Score: 0.8, MinX: 5, MinY: 5, MaxX: 60, MaxY: 40}}

	if err := SaveAnnotated(gradient(80, 60), dets, path); err != nil {
		t.Fatal(err)
	}
	img, format, err := LoadImage(path)
	if err != nil {
		t.Fatal(err)
	}
	if format != "jpeg" || img.Bounds().Dx() != 80 {
		t.Errorf("format %s bounds %v", format, img.Bounds())
	}
}

func TestAnalyze_AllSections(t *testing.T) {
	cfg := testConfig(t)
	target := writePNG(t, t.TempDir(), "scan.png", noise(64, 64))
	fake := runnertest.New().Respond("tesseract", runner.Result{Stdout: "  SECRET NOTE\n"})

	a := New(fake, cfg)
	defer a.Close()

	report, err := a.Analyze(context.Background(), target, AllOptions())
	if err != nil {
		t.Fatal(err)
	}

	if report.Width != 64 || report.Height != 64 || report.Hashes == nil {
		t.Errorf("report = %+v", report)
	}
	if report.OCRText != "SECRET NOTE" {
		t.Errorf("ocr text = %q", report.OCRText)
	}
	saved, err := os.ReadFile(filepath.Join(cfg.Vision.OutputDir, OCRFile))
	if err != nil || string(saved) != "  SECRET NOTE\n" {
		t.Errorf("text.txt = %q, %v", saved, err)
	}
	if _, err := os.Stat(report.ELAPath); err != nil {
		t.Errorf("ela output: %v", err)
	}
	if report.LSB == nil || len(report.Findings) != 1 {
		t.Errorf("lsb = %+v findings = %+v", report.LSB, report.Findings)
	}
	if _, ok := report.Skipped[SectionObjects]; !ok {
		t.Errorf("objects should be skipped without a model: %+v", report.Skipped)
	}
	if len(report.Errors) != 0 {
		t.Errorf("unexpected errors: %v", report.Errors)
	}
	if diff := cmp.Diff([]string{SectionHashes, SectionOCR, SectionELA, SectionLSB}, report.Sections); diff != "" {
		t.Errorf("completed sections mismatch (-want +got):\n%s", diff)
	}
	if calls := fake.Calls(); len(calls) != 1 || calls[0].Args[1] != "stdout" {
		t.Errorf("tesseract calls = %+v", calls)
	}
}

func TestAnalyze_OCRUnavailableAndEmpty(t *testing.T) {
	target := writePNG(t, t.TempDir(), "plain.png", gradient(16, 16))

	report, err := New(runnertest.New(), testConfig(t)).Analyze(context.Background(), target, Options{OCR: true})
	if err != nil {
		t.Fatal(err)
	}
	if report.Skipped[SectionOCR] != "tesseract not installed" {
		t.Errorf("skipped = %v", report.Skipped)
	}

	cfg := testConfig(t)
	fake := runnertest.New().Respond("tesseract", runner.Result{Stdout: "\n \n"})
	report, err = New(fake, cfg).Analyze(context.Background(), target, Options{OCR: true})
	if err != nil {
		t.Fatal(err)
	}
	if report.OCRText != "" || report.OCRPath != "" {
		t.Errorf("blank OCR should save nothing: %+v", report)
	}
}

func TestAnalyze_UnreadableImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(runnertest.New(), testConfig(t)).Analyze(context.Background(), path, DefaultOptions())
	if apperrors.GetCode(err) != apperrors.EFileUnreadable {
		t.Errorf("error = %v, want E_FILE_UNREADABLE", err)
	}
}

func TestOptions(t *testing.T) {
	if (Options{}).Any() {
		t.Error("zero options should select nothing")
	}
	if d := DefaultOptions(); !d.Hashes || !d.OCR || !d.ELA || d.LSB || d.Objects {
		t.Errorf("default options = %+v", d)
	}
}
