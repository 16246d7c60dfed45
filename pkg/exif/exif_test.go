package exif

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "ImgOSINT/pkg/errors"
	"ImgOSINT/pkg/models"
)

// jpegWithMake builds a JPEG prefix whose APP1 segment holds a single IFD0
// entry: Make = camera.
func jpegWithMake(camera string) []byte {
	value := append([]byte(camera), 0)

	var tiffBuf bytes.Buffer
	le := binary.LittleEndian
	tiffBuf.WriteString("II")
	_ = binary.Write(&tiffBuf, le, uint16(42))
	_ = binary.Write(&tiffBuf, le, uint32(8)) // IFD0 offset
	_ = binary.Write(&tiffBuf, le, uint16(1)) // entry count
	_ = binary.Write(&tiffBuf, le, uint16(0x010f))
	_ = binary.Write(&tiffBuf, le, uint16(2)) // ASCII
	_ = binary.Write(&tiffBuf, le, uint32(len(value)))
	_ = binary.Write(&tiffBuf, le, uint32(26)) // value offset, right after the IFD
	_ = binary.Write(&tiffBuf, le, uint32(0))  // no next IFD
	tiffBuf.Write(value)

	payload := append([]byte("Exif\x00\x00"), tiffBuf.Bytes()...)

	var out bytes.Buffer
	out.Write([]byte{0xff, 0xd8, 0xff, 0xe1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write([]byte{0xff, 0xd9})
	return out.Bytes()
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract_Tags(t *testing.T) {
	path := writeTemp(t, "camera.jpg", jpegWithMake("Canon"))

	report, err := Extract(path)
	if err != nil {
		t.Fatal(err)
	}

	want := []models.ExifTag{{Name: "Make", Value: "Canon"}}
	if diff := cmp.Diff(want, report.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if report.Message != "1 EXIF tags found" {
		t.Errorf("message = %q", report.Message)
	}
	if report.GPS != nil || report.TakenAt != nil {
		t.Errorf("unexpected GPS/time: %+v", report)
	}
}

func TestExtract_NoMetadata(t *testing.T) {
	tests := map[string][]byte{
		"plain.jpg": {0xff, 0xd8, 0xff, 0xd9},
		"image.png": []byte("\x89PNG\r\n\x1a\n"),
		"empty.bmp": {},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			report, err := Extract(writeTemp(t, name, data))
			if err != nil {
				t.Fatal(err)
			}
			if report.HasTags() || report.Message != NoMetadataMessage {
				t.Errorf("got %d tags, message %q", len(report.Tags), report.Message)
			}
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "gone.jpg"))
	if apperrors.GetCode(err) != apperrors.EFileNotFound {
		t.Errorf("error = %v, want E_FILE_NOT_FOUND", err)
	}
}
