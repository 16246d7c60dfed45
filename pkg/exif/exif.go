// Package exif extracts EXIF metadata from image files.
package exif

import (
	"fmt"
	"os"
	"sort"
	"strings"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"

	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/logging"
	"ImgOSINT/pkg/models"
)

// NoMetadataMessage is reported when a file carries no EXIF block.
const NoMetadataMessage = "No EXIF metadata found"

func init() {
	goexif.RegisterParsers(mknote.All...)
}

// tagCollector implements goexif.Walker.
type tagCollector struct {
	tags []models.ExifTag
}

func (c *tagCollector) Walk(name goexif.FieldName, tag *tiff.Tag) error {
	c.tags = append(c.tags, models.ExifTag{Name: string(name), Value: tagValue(tag)})
	return nil
}

func tagValue(tag *tiff.Tag) string {
	if tag.Format() == tiff.StringVal {
		if s, err := tag.StringVal(); err == nil {
			return strings.TrimRight(s, "\x00")
		}
	}
	return tag.String()
}

// Extract decodes every EXIF tag in path. A file without EXIF is not an
// error: the report has no tags and says so.
func Extract(path string) (*models.ExifReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.EFileNotFound, "file not found: %s", path)
		}
		return nil, apperrors.Wrap(apperrors.EFileUnreadable, "cannot open "+path, err)
	}
	defer f.Close()

	report := &models.ExifReport{Target: path}
	logger := logging.New("exif")

	x, err := goexif.Decode(f)
	if err != nil && (x == nil || goexif.IsCriticalError(err)) {
		logger.Debug("no exif block", "target", path, "error", err)
		report.Message = NoMetadataMessage
		return report, nil
	}
	if err != nil {
		// Tag-level problems still leave the rest of the block usable.
		report.Warnings = append(report.Warnings, err.Error())
	}

	c := &tagCollector{}
	if err := x.Walk(c); err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("walk: %v", err))
	}
	sort.SliceStable(c.tags, func(i, j int) bool { return c.tags[i].Name < c.tags[j].Name })
	report.Tags = c.tags

	if lat, long, err := x.LatLong(); err == nil {
		report.GPS = &models.GPSPosition{Latitude: lat, Longitude: long}
	}
	if taken, err := x.DateTime(); err == nil {
		report.TakenAt = &taken
	}

	if report.HasTags() {
		report.Message = fmt.Sprintf("%d EXIF tags found", len(report.Tags))
	} else {
		report.Message = NoMetadataMessage
	}
	logger.Debug("exif decoded", "target", path, "tags", len(report.Tags))
	return report, nil
}
