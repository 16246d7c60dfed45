package filehandler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "ImgOSINT/pkg/errors"
)

/*
File explanation:
Target handling for the analysis pipeline: validating that a target is a
readable regular file, detecting its container format (extension first,
content sniffing second), fetching URL targets, and collecting the files of a
directory for batch scans.
*/

// maxDownloadSize bounds URL targets.
const maxDownloadSize = 100 * 1024 * 1024

// SupportedFormats maps file extensions to their format names.
var SupportedFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".webp": "webp",
	".tif":  "tiff",
	".tiff": "tiff",
	".wav":  "wav",
	".au":   "au",
}

// Ext returns the lowercase extension of path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// CheckTarget verifies that path names a readable regular file.
func CheckTarget(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.Newf(apperrors.EFileNotFound, "file not found: %s", path)
		}
		return apperrors.Wrap(apperrors.EFileUnreadable, fmt.Sprintf("cannot stat %s", path), err)
	}
	if !info.Mode().IsRegular() {
		return apperrors.Newf(apperrors.EFileUnreadable, "not a regular file: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return apperrors.Wrap(apperrors.EFileUnreadable, fmt.Sprintf("cannot open %s", path), err)
	}
	return f.Close()
}

// DetectFileFormat detects the format of a file
func DetectFileFormat(filePath string) (string, error) {
	// First check extension
	if format, ok := SupportedFormats[Ext(filePath)]; ok {
		return format, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType := http.DetectContentType(buffer[:n])

	switch {
	case strings.Contains(contentType, "image/png"):
		return "png", nil
	case strings.Contains(contentType, "image/jpeg"):
		return "jpeg", nil
	case strings.Contains(contentType, "image/gif"):
		return "gif", nil
	case strings.Contains(contentType, "image/bmp"):
		return "bmp", nil
	case strings.Contains(contentType, "image/webp"):
		return "webp", nil
	case strings.Contains(contentType, "audio/wave"):
		return "wav", nil
	case strings.Contains(contentType, "audio/basic"):
		return "au", nil
	default:
		return "", fmt.Errorf("unsupported file format: %s", contentType)
	}
}

// IsURL checks if the given string is a URL
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// DownloadFromURL downloads a file from a URL into outputDir and returns its path.
// The URL's last path segment names the file so the extension gate still applies.
func DownloadFromURL(url, outputDir string) (string, error) {
	client := &http.Client{Timeout: 60 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return "", apperrors.Wrap(apperrors.EDownloadFailed, "failed to download "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Newf(apperrors.EDownloadFailed, "bad status downloading %s: %s", url, resp.Status)
	}
	if resp.ContentLength > maxDownloadSize {
		return "", apperrors.Newf(apperrors.EDownloadFailed, "file too large (max 100MB): %s", url)
	}

	filename := urlFilename(url)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.EDownloadFailed, "failed to create download directory", err)
	}

	outputPath := filepath.Join(outputDir, filename)
	out, err := os.Create(outputPath)
	if err != nil {
		return "", apperrors.Wrap(apperrors.EDownloadFailed, "failed to create "+outputPath, err)
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return "", apperrors.Wrap(apperrors.EDownloadFailed, "failed to save download", err)
	}
	if written > maxDownloadSize {
		_ = os.Remove(outputPath)
		return "", apperrors.Newf(apperrors.EDownloadFailed, "file too large (max 100MB): %s", url)
	}

	return outputPath, nil
}

func urlFilename(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	urlParts := strings.Split(url, "/")
	filename := urlParts[len(urlParts)-1]
	if filename == "" || len(urlParts) <= 3 {
		filename = "downloaded_file"
	}
	return filename
}

// FilesInDirectory returns the files under dirPath whose extension is in
// extensions. An empty extensions list accepts every file.
func FilesInDirectory(dirPath string, extensions []string) ([]string, error) {
	var files []string

	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	err = filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		if len(extensions) == 0 {
			files = append(files, path)
			return nil
		}
		ext := Ext(path)
		for _, validExt := range extensions {
			if ext == validExt {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// SupportedExtensions lists the keys of SupportedFormats.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(SupportedFormats))
	for ext := range SupportedFormats {
		exts = append(exts, ext)
	}
	return exts
}
