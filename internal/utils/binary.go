package utils

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes read when detecting binary content.
const sniffLength = 1024

// HasBinaryPrefix reads up to sniffLength bytes from the file at path and
// reports whether they contain a NUL byte. Unreadable files are reported as
// non-binary; the subsequent full read surfaces its own failure.
func HasBinaryPrefix(path string) bool {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return false
	}
	return bytes.IndexByte(buffer[:bytesRead], 0) >= 0
}

// IsValidText reports whether the provided byte slice decodes as UTF-8 text.
func IsValidText(data []byte) bool {
	return utf8.Valid(data)
}
