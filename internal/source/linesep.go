package source

import (
	"bytes"
	"runtime"
)

// Line separators as written to disk.
const (
	SepUnix    = "\n"
	SepWindows = "\r\n"
)

// Native returns the platform's default line separator.
func Native() string {
	if runtime.GOOS == "windows" {
		return SepWindows
	}
	return SepUnix
}

// DetectSep returns the first line separator appearing in content.
// Content without any newline reports fallback.
func DetectSep(content []byte, fallback string) string {
	i := bytes.IndexByte(content, '\n')
	if i < 0 {
		return fallback
	}
	if i > 0 && content[i-1] == '\r' {
		return SepWindows
	}
	return SepUnix
}
