package filehandler

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"

	apperrors "ImgOSINT/pkg/errors"
)

// WordlistEncoding says how wordlist bytes become passphrases.
type WordlistEncoding string

const (
	// EncodingRaw passes each line's bytes to the extractor unchanged.
	EncodingRaw WordlistEncoding = "raw"
	// EncodingLatin1 reads the file as ISO-8859-1 and hands the extractor
	// UTF-8, for Latin-1 lists tried against payloads embedded from a UTF-8
	// terminal.
	EncodingLatin1 WordlistEncoding = "latin1"
)

// ParseWordlistEncoding maps a flag value to an encoding. Empty means raw.
func ParseWordlistEncoding(s string) (WordlistEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return EncodingRaw, nil
	case "latin1", "latin-1", "iso-8859-1":
		return EncodingLatin1, nil
	default:
		return "", apperrors.Newf(apperrors.EUsage, "unknown wordlist encoding %q (want raw or latin1)", s)
	}
}

// Wordlist streams candidate passphrases one line at a time with no line
// length limit. Lines keep their bytes unless an encoding says otherwise.
type Wordlist struct {
	file   *os.File
	reader *bufio.Reader
	err    error
	done   bool
}

// OpenWordlist opens path for streaming. A path that does not resolve to a
// regular file yields an E_WORDLIST_NOT_FOUND error.
func OpenWordlist(path string, enc WordlistEncoding) (*Wordlist, error) {
	var src func(io.Reader) io.Reader
	switch enc {
	case "", EncodingRaw:
		src = func(r io.Reader) io.Reader { return r }
	case EncodingLatin1:
		src = charmap.ISO8859_1.NewDecoder().Reader
	default:
		return nil, apperrors.Newf(apperrors.EUsage, "unknown wordlist encoding %q", enc)
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, apperrors.Wrap(apperrors.EWordlistNotFound, "wordlist not found: "+path, err)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.EWordlistNotFound, "wordlist not readable: "+path, err)
	}
	return &Wordlist{file: file, reader: bufio.NewReaderSize(src(file), 64*1024)}, nil
}

// asciiSpace is trimmed from candidates. Other bytes are left alone so the
// extractor sees exactly what the file holds.
const asciiSpace = " \t\r\n\v\f"

// Next returns the next non-blank candidate with surrounding ASCII whitespace
// trimmed. It returns false at end of input or on a read error; check Err.
func (w *Wordlist) Next() (string, bool) {
	for !w.done {
		line, err := w.reader.ReadString('\n')
		if err != nil {
			w.done = true
			if !errors.Is(err, io.EOF) {
				w.err = err
				return "", false
			}
		}
		if candidate := strings.Trim(line, asciiSpace); candidate != "" {
			return candidate, true
		}
	}
	return "", false
}

// Err returns the first non-EOF read error.
func (w *Wordlist) Err() error { return w.err }

// Close releases the underlying file.
func (w *Wordlist) Close() error { return w.file.Close() }

// UniqueOutputPath returns a path in dir that does not exist yet, named
// <prefix>-<random hex><ext>. The file itself is not created.
func UniqueOutputPath(dir, prefix, ext string) (string, error) {
	for i := 0; i < 8; i++ {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate output name: %w", err)
		}
		path := filepath.Join(dir, prefix+"-"+hex.EncodeToString(buf)+ext)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", errors.New("could not allocate a unique output path")
}

// GetFileSize returns the size of a file in bytes
func GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}
