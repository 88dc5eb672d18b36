package commands

import (
	"os"
	"strings"

	"github.com/temirov/inspect/internal/utils"
)

const (
	infoSkipBinaryFormat    = "skipping binary file: %s"
	warningReadFileFormat   = "unable to read file %s: %v"
	warningDecodeFileFormat = "unable to decode %s as UTF-8"
)

// ContentPolicy decides whether a file's text is embedded in its node and how
// much of it is kept. Extensions carry the leading dot and compare
// case-sensitively; ReadAll overrides the extension allow-list. HeadLines and
// TailLines are mutually exclusive (validated upstream); non-positive values
// mean no truncation.
type ContentPolicy struct {
	ReadAll    bool
	Extensions map[string]struct{}
	HeadLines  int
	TailLines  int
}

// ContentLoader reads file content according to a ContentPolicy. Binary files
// and undecodable files are skipped with a log message, never an error.
type ContentLoader struct {
	policy ContentPolicy
	logger Logger
}

// NewContentLoader creates a ContentLoader for the provided policy.
func NewContentLoader(policy ContentPolicy, logger Logger) *ContentLoader {
	return &ContentLoader{policy: policy, logger: logger}
}

// ShouldRead reports whether content should be extracted for the file at
// filePath: always when ReadAll is set, otherwise when the file's extension
// is in the allow-list.
func (loader *ContentLoader) ShouldRead(filePath string) bool {
	if loader.policy.ReadAll {
		return true
	}
	_, allowed := loader.policy.Extensions[fileExtension(filePath)]
	return allowed
}

// Load reads the file at filePath, applies head/tail truncation, and returns
// the resulting text. It returns nil when the file looks binary, cannot be
// read, or does not decode as UTF-8.
func (loader *ContentLoader) Load(filePath string) *string {
	if utils.HasBinaryPrefix(filePath) {
		loader.logger.Infof(infoSkipBinaryFormat, filePath)
		return nil
	}

	fileData, readError := os.ReadFile(filePath)
	if readError != nil {
		loader.logger.Warnf(warningReadFileFormat, filePath, readError)
		return nil
	}
	if !utils.IsValidText(fileData) {
		loader.logger.Warnf(warningDecodeFileFormat, filePath)
		return nil
	}

	content := truncateLines(string(fileData), loader.policy.HeadLines, loader.policy.TailLines)
	return &content
}

// truncateLines keeps the first headLines or the last tailLines lines of
// text, terminators retained. Requesting more lines than exist returns the
// whole text.
func truncateLines(text string, headLines int, tailLines int) string {
	if headLines <= 0 && tailLines <= 0 {
		return text
	}

	lines := splitLinesKeepingTerminators(text)
	switch {
	case headLines > 0 && headLines < len(lines):
		lines = lines[:headLines]
	case tailLines > 0 && tailLines < len(lines):
		lines = lines[len(lines)-tailLines:]
	}
	return strings.Join(lines, "")
}

// splitLinesKeepingTerminators splits text after every newline, dropping the
// empty trailing element produced when the text ends with a newline.
func splitLinesKeepingTerminators(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// fileExtension returns the entry's extension including the leading dot, or
// the empty string when the name has none.
func fileExtension(filePath string) string {
	lastDot := strings.LastIndex(filePath, ".")
	lastSeparator := strings.LastIndexAny(filePath, `/\`)
	if lastDot <= lastSeparator+1 {
		return ""
	}
	return filePath[lastDot:]
}
