package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// capturingLogger records formatted log lines for inspection.
type capturingLogger struct {
	infoMessages    []string
	warningMessages []string
}

func (logger *capturingLogger) Infof(template string, args ...interface{}) {
	logger.infoMessages = append(logger.infoMessages, fmt.Sprintf(template, args...))
}

func (logger *capturingLogger) Warnf(template string, args ...interface{}) {
	logger.warningMessages = append(logger.warningMessages, fmt.Sprintf(template, args...))
}

func writeTestFile(testingInstance *testing.T, fileName string, data []byte) string {
	testingInstance.Helper()
	filePath := filepath.Join(testingInstance.TempDir(), fileName)
	if writeError := os.WriteFile(filePath, data, 0o644); writeError != nil {
		testingInstance.Fatalf("writing %s: %v", fileName, writeError)
	}
	return filePath
}

func TestShouldReadExtensionPolicy(testingInstance *testing.T) {
	testCases := []struct {
		name       string
		policy     ContentPolicy
		filePath   string
		shouldRead bool
	}{
		{
			name:       "allow-listed extension",
			policy:     ContentPolicy{Extensions: map[string]struct{}{".py": {}}},
			filePath:   "src/main.py",
			shouldRead: true,
		},
		{
			name:       "extension not listed",
			policy:     ContentPolicy{Extensions: map[string]struct{}{".py": {}}},
			filePath:   "src/main.go",
			shouldRead: false,
		},
		{
			name:       "extensions compare case sensitively",
			policy:     ContentPolicy{Extensions: map[string]struct{}{".py": {}}},
			filePath:   "src/MAIN.PY",
			shouldRead: false,
		},
		{
			name:       "read all overrides the allow list",
			policy:     ContentPolicy{ReadAll: true},
			filePath:   "src/binaryish.bin",
			shouldRead: true,
		},
		{
			name:       "dotfile name is not an extension",
			policy:     ContentPolicy{Extensions: map[string]struct{}{".secret": {}}},
			filePath:   "config/.secret",
			shouldRead: false,
		},
		{
			name:       "empty policy reads nothing",
			policy:     ContentPolicy{},
			filePath:   "src/main.py",
			shouldRead: false,
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subtest *testing.T) {
			loader := NewContentLoader(testCase.policy, &capturingLogger{})
			if got := loader.ShouldRead(testCase.filePath); got != testCase.shouldRead {
				subtest.Fatalf("ShouldRead(%q) = %v, want %v", testCase.filePath, got, testCase.shouldRead)
			}
		})
	}
}

func TestLoadReturnsFullText(testingInstance *testing.T) {
	filePath := writeTestFile(testingInstance, "plain.txt", []byte("alpha\nbeta\n"))
	loader := NewContentLoader(ContentPolicy{ReadAll: true}, &capturingLogger{})

	content := loader.Load(filePath)
	if content == nil || *content != "alpha\nbeta\n" {
		testingInstance.Fatalf("Load returned %v, want the full text", content)
	}
}

func TestLoadSkipsBinaryFiles(testingInstance *testing.T) {
	filePath := writeTestFile(testingInstance, "blob.bin", []byte("head\x00tail"))
	logger := &capturingLogger{}
	loader := NewContentLoader(ContentPolicy{ReadAll: true}, logger)

	if content := loader.Load(filePath); content != nil {
		testingInstance.Fatalf("binary files must yield no content, got %q", *content)
	}
	if len(logger.infoMessages) != 1 || !strings.Contains(logger.infoMessages[0], "blob.bin") {
		testingInstance.Fatalf("binary skip must be logged, got %v", logger.infoMessages)
	}
}

func TestLoadSkipsInvalidUTF8(testingInstance *testing.T) {
	filePath := writeTestFile(testingInstance, "latin1.txt", []byte{0x63, 0x61, 0x66, 0xe9})
	logger := &capturingLogger{}
	loader := NewContentLoader(ContentPolicy{ReadAll: true}, logger)

	if content := loader.Load(filePath); content != nil {
		testingInstance.Fatalf("undecodable files must yield no content, got %q", *content)
	}
	if len(logger.warningMessages) != 1 || !strings.Contains(logger.warningMessages[0], "latin1.txt") {
		testingInstance.Fatalf("decode failure must be logged, got %v", logger.warningMessages)
	}
}

func TestLoadMissingFileWarns(testingInstance *testing.T) {
	logger := &capturingLogger{}
	loader := NewContentLoader(ContentPolicy{ReadAll: true}, logger)

	missingPath := filepath.Join(testingInstance.TempDir(), "absent.txt")
	if content := loader.Load(missingPath); content != nil {
		testingInstance.Fatalf("unreadable files must yield no content")
	}
	if len(logger.warningMessages) != 1 {
		testingInstance.Fatalf("read failure must be logged, got %v", logger.warningMessages)
	}
}

func TestTruncateLines(testingInstance *testing.T) {
	tenLines := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\n"

	testCases := []struct {
		name      string
		text      string
		headLines int
		tailLines int
		want      string
	}{
		{
			name:      "head keeps the first lines with terminators",
			text:      tenLines,
			headLines: 3,
			want:      "l1\nl2\nl3\n",
		},
		{
			name:      "tail keeps the last lines with terminators",
			text:      tenLines,
			tailLines: 2,
			want:      "l9\nl10\n",
		},
		{
			name:      "head larger than the file returns everything",
			text:      "only\n",
			headLines: 50,
			want:      "only\n",
		},
		{
			name:      "tail larger than the file returns everything",
			text:      "only\n",
			tailLines: 50,
			want:      "only\n",
		},
		{
			name: "no limits return the text unchanged",
			text: tenLines,
			want: tenLines,
		},
		{
			name:      "missing final terminator is preserved",
			text:      "a\nb\nc",
			tailLines: 2,
			want:      "b\nc",
		},
		{
			name:      "empty text stays empty",
			text:      "",
			headLines: 3,
			want:      "",
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subtest *testing.T) {
			got := truncateLines(testCase.text, testCase.headLines, testCase.tailLines)
			if got != testCase.want {
				subtest.Fatalf("truncateLines(head=%d, tail=%d) = %q, want %q", testCase.headLines, testCase.tailLines, got, testCase.want)
			}
		})
	}
}

func TestFileExtension(testingInstance *testing.T) {
	testCases := []struct {
		filePath string
		want     string
	}{
		{filePath: "main.py", want: ".py"},
		{filePath: "archive.tar.gz", want: ".gz"},
		{filePath: "dir/file", want: ""},
		{filePath: "config/.secret", want: ""},
		{filePath: "dir.v2/file", want: ""},
		{filePath: "README", want: ""},
	}

	for _, testCase := range testCases {
		if got := fileExtension(testCase.filePath); got != testCase.want {
			testingInstance.Fatalf("fileExtension(%q) = %q, want %q", testCase.filePath, got, testCase.want)
		}
	}
}
