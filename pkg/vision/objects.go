package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"ImgOSINT/pkg/models"
)

// MobileNet-SSD (Caffe export) input geometry and normalisation.
const (
	ModelFile    = "mobilenet_ssd.onnx"
	ssdInputSize = 300
	ssdScale     = 0.007843
	ssdMean      = 127.5
	ssdInputName = "data"
	ssdOutput    = "detection_out"
	ssdRowWidth  = 7 // image id, class, score, x1, y1, x2, y2
)

// VOCClasses are the labels the detector was trained on, by class index.
var VOCClasses = []string{
	"background", "aeroplane", "bicycle", "bird", "boat",
	"bottle", "bus", "car", "cat", "chair", "cow", "diningtable",
	"dog", "horse", "motorbike", "person", "pottedplant",
	"sheep", "sofa", "train", "tvmonitor",
}

// ObjectDetector wraps an ONNX Runtime session over MobileNet-SSD.
type ObjectDetector struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	mu sync.Mutex
}

// LoadObjectDetector initialises ONNX Runtime and the model in modelDir.
// maxDetections must match the model's keep_top_k.
func LoadObjectDetector(modelDir string, maxDetections int) (*ObjectDetector, error) {
	if modelDir == "" {
		return nil, errors.New("no object model directory configured (vision.model_dir)")
	}

	modelPath := filepath.Join(modelDir, ModelFile)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file missing at %s: %w", modelPath, err)
	}

	libPath := resolveSharedLibraryPath(modelDir)
	if libPath == "" {
		return nil, errors.New("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH or install the runtime")
	}
	ort.SetSharedLibraryPath(libPath)
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, ssdInputSize, ssdInputSize))
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1, int64(maxDetections), ssdRowWidth))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{ssdInputName},
		[]string{ssdOutput},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ObjectDetector{session: session, input: input, output: output}, nil
}

// Detect returns the objects in img scoring above minScore.
func (d *ObjectDetector) Detect(img image.Image, minScore float64) ([]models.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fillBlob(img, d.input.GetData())
	if err := d.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	b := img.Bounds()
	return parseDetections(d.output.GetData(), b.Dx(), b.Dy(), minScore), nil
}

// Destroy releases the session and its tensors.
func (d *ObjectDetector) Destroy() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return errors.Join(d.session.Destroy(), d.input.Destroy(), d.output.Destroy())
}

// fillBlob resizes img to the network input and writes it into dst as
// planar BGR, each value (p - mean) * scale.
func fillBlob(img image.Image, dst []float32) {
	resized := image.NewRGBA(image.Rect(0, 0, ssdInputSize, ssdInputSize))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Src, nil)

	plane := ssdInputSize * ssdInputSize
	for y := 0; y < ssdInputSize; y++ {
		for x := 0; x < ssdInputSize; x++ {
			i := resized.PixOffset(x, y)
			p := y*ssdInputSize + x
			dst[p] = (float32(resized.Pix[i+2]) - ssdMean) * ssdScale
			dst[plane+p] = (float32(resized.Pix[i+1]) - ssdMean) * ssdScale
			dst[2*plane+p] = (float32(resized.Pix[i]) - ssdMean) * ssdScale
		}
	}
}

// parseDetections reads [1,1,N,7] SSD rows with normalised boxes and scales
// them to a width x height image.
func parseDetections(raw []float32, width, height int, minScore float64) []models.Detection {
	var out []models.Detection
	for off := 0; off+ssdRowWidth <= len(raw); off += ssdRowWidth {
		row := raw[off : off+ssdRowWidth]
		if row[0] < 0 {
			// Padding rows carry image id -1.
			continue
		}
		score := float64(row[2])
		class := int(row[1])
		if score <= minScore || class <= 0 || class >= len(VOCClasses) {
			continue
		}
		out = append(out, models.Detection{
			Label: VOCClasses[class],
			Score: score,
			MinX:  clamp(int(row[3]*float32(width)), width),
			MinY:  clamp(int(row[4]*float32(height)), height),
			MaxX:  clamp(int(row[5]*float32(width)), width),
			MaxY:  clamp(int(row[6]*float32(height)), height),
		})
	}
	return out
}

func clamp(v, limit int) int {
	return min(max(v, 0), limit)
}

var boxColor = color.RGBA{G: 255, A: 255}

// SaveAnnotated draws a labelled box for every detection and writes the
// result to path as JPEG.
func SaveAnnotated(img image.Image, detections []models.Detection, path string) error {
	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)

	for _, det := range detections {
		drawBox(canvas, image.Rect(det.MinX, det.MinY, det.MaxX, det.MaxY), 2)

		labelY := det.MinY - 4
		if labelY < 12 {
			labelY = det.MinY + 14
		}
		fd := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(boxColor),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(det.MinX+2, labelY),
		}
		fd.DrawString(fmt.Sprintf("%s: %.2f", strings.ToUpper(det.Label[:1])+det.Label[1:], det.Score))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, canvas, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func drawBox(dst *image.RGBA, r image.Rectangle, thickness int) {
	src := image.NewUniform(boxColor)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// resolveSharedLibraryPath locates a platform-specific onnxruntime shared
// library. ONNXRUNTIME_SHARED_LIBRARY_PATH wins over the search.
func resolveSharedLibraryPath(modelDir string) string {
	if env := strings.TrimSpace(os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")); env != "" {
		return env
	}

	names := []string{
		"libonnxruntime.dylib",
		"onnxruntime.dylib",
		"libonnxruntime.so",
		"onnxruntime.so",
		"onnxruntime.dll",
	}
	dirs := []string{
		modelDir,
		filepath.Join(modelDir, "lib"),
		".",
		"/opt/homebrew/lib",
		"/usr/local/lib",
		"/usr/lib",
	}

	for _, dir := range dirs {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}
