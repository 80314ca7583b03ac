// Package source turns uploaded files into the descriptors the request builder
// consumes: a name, the original byte size and the decoded text.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// File is an uploaded file as seen by the review pipeline.
type File struct {
	Name      string
	SizeBytes int64 // byte count of the original upload, before decoding
	Content   string
}

// Lines splits content on newlines exactly as the analyzer does.
func (f File) Lines() []string {
	return strings.Split(f.Content, "\n")
}

// Read loads the file at path. The size comes from the file metadata.
func Read(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return File{
		Name:      filepath.Base(path),
		SizeBytes: info.Size(),
		Content:   Decode(data),
	}, nil
}

// FromReader consumes r fully and names the result name.
func FromReader(name string, r io.Reader) (File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", name, err)
	}
	return FromBytes(name, data), nil
}

// FromBytes wraps raw upload bytes.
func FromBytes(name string, data []byte) File {
	return File{
		Name:      name,
		SizeBytes: int64(len(data)),
		Content:   Decode(data),
	}
}

// Decode converts uploaded bytes to text. UTF-16 input with a byte order mark is
// transcoded; anything else is treated as UTF-8 with invalid sequences replaced.
// Decoding is lossy for binary input and never fails.
func Decode(data []byte) string {
	if hasUTF16BOM(data) {
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(dec, data)
		if err == nil {
			return string(out)
		}
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func hasUTF16BOM(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return (data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF)
}

// FormatSize renders a byte count for display: "0 Bytes", "512 Bytes", "1.5 KB".
func FormatSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	s := fmt.Sprintf("%.2f", size)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " " + units[i]
}
