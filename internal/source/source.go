package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// File captures content and metadata for a single suite file.
// Content holds the exact bytes that were read: no BOM stripping and no
// newline normalization happens here. Untouched input must render back
// byte-identical, so the bytes stay authoritative from load to write.
type File struct {
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of every '\n' in Content
	Hash    [32]byte
	Virtual bool // stdin or in-memory input, never written back in place
}

// Load reads a file from disk.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := New(path, content)
	f.Virtual = false
	return f, nil
}

// ReadStdin drains standard input into a virtual file named "-".
func ReadStdin() (*File, error) {
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return New("-", content), nil
}

// New builds a virtual file from in-memory content (tests, stdin).
func New(name string, content []byte) *File {
	return &File{
		Path:    normalizePath(name),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Virtual: true,
	}
}

// LineCount returns the number of lines in the file. A trailing newline
// does not start an extra empty line; empty content counts as zero lines.
func (f *File) LineCount() int {
	if len(f.Content) == 0 {
		return 0
	}
	n := len(f.LineIdx)
	last, err := safecast.Conv[uint32](len(f.Content) - 1)
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if n == 0 || f.LineIdx[n-1] != last {
		n++ // content after the last '\n'
	}
	return n
}

// Line returns the text of line n (1-based) without its line ending.
// Out-of-range line numbers return an empty string.
func (f *File) Line(n int) string {
	if n < 1 {
		return ""
	}
	lineNum, err := safecast.Conv[uint32](n)
	if err != nil {
		return ""
	}
	lenIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start uint32
	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	end := lenContent
	if (lineNum - 1) < lenIdx {
		end = f.LineIdx[lineNum-1]
	}
	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	return strings.TrimSuffix(string(f.Content[start:end]), "\r")
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("line offset overflow: %w", err))
			}
			out = append(out, off)
		}
	}
	return out
}

func normalizePath(p string) string {
	if p == "-" {
		return p
	}
	// one canonical form so diffs and summaries look the same everywhere
	return filepath.ToSlash(filepath.Clean(p))
}
