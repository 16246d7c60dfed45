package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
)

// ErrorLevel re-encodes img as JPEG at quality and returns the per-channel
// difference, brightened so the largest difference maps to 255. It also
// returns that largest raw difference.
func ErrorLevel(img image.Image, quality int) (*image.RGBA, uint8, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, 0, fmt.Errorf("re-encode: %w", err)
	}
	resaved, err := jpeg.Decode(&buf)
	if err != nil {
		return nil, 0, fmt.Errorf("decode re-encoded image: %w", err)
	}

	b := img.Bounds()
	rb := resaved.Bounds()
	diff := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	var maxDiff uint8
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			o := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			r := color.NRGBAModel.Convert(resaved.At(rb.Min.X+x, rb.Min.Y+y)).(color.NRGBA)
			px := color.RGBA{R: absDiff(o.R, r.R), G: absDiff(o.G, r.G), B: absDiff(o.B, r.B), A: 255}
			maxDiff = max(maxDiff, px.R, px.G, px.B)
			diff.SetRGBA(x, y, px)
		}
	}

	scale := 1.0
	if maxDiff != 0 {
		scale = 255.0 / float64(maxDiff)
	}
	for i := 0; i < len(diff.Pix); i += 4 {
		diff.Pix[i] = brighten(diff.Pix[i], scale)
		diff.Pix[i+1] = brighten(diff.Pix[i+1], scale)
		diff.Pix[i+2] = brighten(diff.Pix[i+2], scale)
	}

	return diff, maxDiff, nil
}

// SaveErrorLevel writes the ELA image of img to path as PNG.
func SaveErrorLevel(img image.Image, quality int, path string) (uint8, error) {
	ela, maxDiff, err := ErrorLevel(img, quality)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, ela); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return maxDiff, nil
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func brighten(v uint8, scale float64) uint8 {
	s := float64(v) * scale
	if s > 255 {
		return 255
	}
	return uint8(s + 0.5)
}
