package vision

import (
	"fmt"
	"image"

	"github.com/corona10/goimagehash"

	"ImgOSINT/pkg/models"
)

// ComputeHashes returns the average, perception and difference hashes of img.
func ComputeHashes(img image.Image) (*models.ImageHashes, error) {
	a, err := goimagehash.AverageHash(img)
	if err != nil {
		return nil, fmt.Errorf("average hash: %w", err)
	}
	p, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("perception hash: %w", err)
	}
	d, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return nil, fmt.Errorf("difference hash: %w", err)
	}

	return &models.ImageHashes{
		Average:    hexHash(a),
		Perception: hexHash(p),
		Difference: hexHash(d),
	}, nil
}

func hexHash(h *goimagehash.ImageHash) string {
	return fmt.Sprintf("%016x", h.GetHash())
}
