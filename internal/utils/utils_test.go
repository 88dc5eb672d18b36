package utils_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/temirov/inspect/internal/utils"
)

func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "duplicates removed keeping first occurrence",
			input:    []string{"*.log", "build", "*.log", "build", "dist"},
			expected: []string{"*.log", "build", "dist"},
		},
		{
			name:     "already unique slice unchanged",
			input:    []string{"a", "b", "c"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty input stays empty",
			input:    []string{},
			expected: []string{},
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subtest *testing.T) {
			result := utils.DeduplicatePatterns(testCase.input)
			if !reflect.DeepEqual(result, testCase.expected) {
				subtest.Fatalf("DeduplicatePatterns(%v) = %v, want %v", testCase.input, result, testCase.expected)
			}
		})
	}
}

func TestContainsString(testingInstance *testing.T) {
	formats := []string{"xml", "json", "compact", "show"}
	if !utils.ContainsString(formats, "json") {
		testingInstance.Fatalf("expected json to be found")
	}
	if utils.ContainsString(formats, "yaml") {
		testingInstance.Fatalf("yaml must not be found")
	}
	if utils.ContainsString(nil, "anything") {
		testingInstance.Fatalf("nil slices contain nothing")
	}
}

func TestRelativePathOrSelf(testingInstance *testing.T) {
	testCases := []struct {
		name     string
		fullPath string
		root     string
		expected string
	}{
		{
			name:     "path below root becomes relative with forward slashes",
			fullPath: filepath.Join("/base", "sub", "file.txt"),
			root:     "/base",
			expected: "sub/file.txt",
		},
		{
			name:     "same directory yields dot",
			fullPath: "/base",
			root:     "/base",
			expected: ".",
		},
		{
			name:     "unclean equal paths yield dot",
			fullPath: "/base/sub/..",
			root:     "/base",
			expected: ".",
		},
		{
			name:     "path outside root falls back to base name",
			fullPath: "/elsewhere/file.txt",
			root:     "/base",
			expected: "file.txt",
		},
		{
			name:     "parent of root falls back to base name",
			fullPath: "/",
			root:     "/base",
			expected: "/",
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subtest *testing.T) {
			result := utils.RelativePathOrSelf(testCase.fullPath, testCase.root)
			if result != testCase.expected {
				subtest.Fatalf("RelativePathOrSelf(%q, %q) = %q, want %q", testCase.fullPath, testCase.root, result, testCase.expected)
			}
		})
	}
}

func TestIsPathWithin(testingInstance *testing.T) {
	testCases := []struct {
		name          string
		candidatePath string
		rootPath      string
		expected      bool
	}{
		{name: "direct child", candidatePath: "/base/sub", rootPath: "/base", expected: true},
		{name: "root itself", candidatePath: "/base", rootPath: "/base", expected: true},
		{name: "sibling with shared prefix", candidatePath: "/basement", rootPath: "/base", expected: false},
		{name: "parent directory", candidatePath: "/", rootPath: "/base", expected: false},
		{name: "unrelated tree", candidatePath: "/other/place", rootPath: "/base", expected: false},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subtest *testing.T) {
			result := utils.IsPathWithin(testCase.candidatePath, testCase.rootPath)
			if result != testCase.expected {
				subtest.Fatalf("IsPathWithin(%q, %q) = %v, want %v", testCase.candidatePath, testCase.rootPath, result, testCase.expected)
			}
		})
	}
}

func TestFormatModifiedTime(testingInstance *testing.T) {
	timestamp := time.Date(2024, time.March, 5, 14, 30, 45, 0, time.Local)
	if formatted := utils.FormatModifiedTime(timestamp); formatted != "2024-03-05T14:30:45" {
		testingInstance.Fatalf("FormatModifiedTime = %q, want %q", formatted, "2024-03-05T14:30:45")
	}
	if formatted := utils.FormatModifiedTime(time.Time{}); formatted != "" {
		testingInstance.Fatalf("zero time must format as the empty string, got %q", formatted)
	}
}

func TestFormatFileSize(testingInstance *testing.T) {
	testCases := []struct {
		bytes    int64
		expected string
	}{
		{bytes: 0, expected: "0b"},
		{bytes: 512, expected: "512b"},
		{bytes: 1024, expected: "1kb"},
		{bytes: 1536, expected: "1.5kb"},
		{bytes: 10 * 1024 * 1024, expected: "10mb"},
		{bytes: 5 * 1024 * 1024 * 1024, expected: "5gb"},
		{bytes: -1, expected: "0b"},
	}

	for _, testCase := range testCases {
		if result := utils.FormatFileSize(testCase.bytes); result != testCase.expected {
			testingInstance.Fatalf("FormatFileSize(%d) = %q, want %q", testCase.bytes, result, testCase.expected)
		}
	}
}

func TestHasBinaryPrefix(testingInstance *testing.T) {
	temporaryDirectory := testingInstance.TempDir()

	binaryPath := filepath.Join(temporaryDirectory, "blob.bin")
	if writeError := os.WriteFile(binaryPath, []byte("prefix\x00suffix"), 0o644); writeError != nil {
		testingInstance.Fatalf("writing binary fixture: %v", writeError)
	}
	textPath := filepath.Join(temporaryDirectory, "plain.txt")
	if writeError := os.WriteFile(textPath, []byte("plain text\n"), 0o644); writeError != nil {
		testingInstance.Fatalf("writing text fixture: %v", writeError)
	}

	if !utils.HasBinaryPrefix(binaryPath) {
		testingInstance.Fatalf("a NUL byte in the prefix must be detected")
	}
	if utils.HasBinaryPrefix(textPath) {
		testingInstance.Fatalf("plain text must not be reported as binary")
	}
	if utils.HasBinaryPrefix(filepath.Join(temporaryDirectory, "absent")) {
		testingInstance.Fatalf("unreadable files must be treated as non-binary")
	}
}

func TestIsValidText(testingInstance *testing.T) {
	if !utils.IsValidText([]byte("héllo wörld\n")) {
		testingInstance.Fatalf("valid UTF-8 must be accepted")
	}
	if utils.IsValidText([]byte{0x63, 0x61, 0x66, 0xe9}) {
		testingInstance.Fatalf("Latin-1 bytes must be rejected")
	}
	if !utils.IsValidText(nil) {
		testingInstance.Fatalf("empty input is valid text")
	}
}
