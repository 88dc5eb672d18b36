package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/inspect/internal/config"
)

func TestNormalizeExtensions(testingInstance *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected map[string]struct{}
	}{
		{
			name:     "bare names gain a leading dot",
			input:    []string{"py", "go"},
			expected: map[string]struct{}{".py": {}, ".go": {}},
		},
		{
			name:     "existing dots are not doubled",
			input:    []string{".py", "..md"},
			expected: map[string]struct{}{".py": {}, ".md": {}},
		},
		{
			name:     "blank entries are dropped",
			input:    []string{"", "  ", "txt"},
			expected: map[string]struct{}{".txt": {}},
		},
		{
			name:     "duplicates collapse",
			input:    []string{"py", ".py"},
			expected: map[string]struct{}{".py": {}},
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subtest *testing.T) {
			result := normalizeExtensions(testCase.input)
			if !reflect.DeepEqual(result, testCase.expected) {
				subtest.Fatalf("normalizeExtensions(%v) = %v, want %v", testCase.input, result, testCase.expected)
			}
		})
	}
}

func TestExpandWildcardArguments(testingInstance *testing.T) {
	temporaryDirectory := testingInstance.TempDir()
	for _, fileName := range []string{"one.txt", "two.txt", "three.md"} {
		if writeError := os.WriteFile(filepath.Join(temporaryDirectory, fileName), []byte("x\n"), 0o644); writeError != nil {
			testingInstance.Fatalf("writing %s: %v", fileName, writeError)
		}
	}

	expanded := expandWildcardArguments([]string{
		filepath.Join(temporaryDirectory, "*.txt"),
		filepath.Join(temporaryDirectory, "missing-*"),
		filepath.Join(temporaryDirectory, "three.md"),
	})

	expected := []string{
		filepath.Join(temporaryDirectory, "one.txt"),
		filepath.Join(temporaryDirectory, "two.txt"),
		filepath.Join(temporaryDirectory, "missing-*"),
		filepath.Join(temporaryDirectory, "three.md"),
	}
	if !reflect.DeepEqual(expanded, expected) {
		testingInstance.Fatalf("expandWildcardArguments = %v, want %v", expanded, expected)
	}
}

func TestApplyConfigurationDefaults(testingInstance *testing.T) {
	command := createRootCommand()
	if parseError := command.Flags().Parse([]string{"--format", "json"}); parseError != nil {
		testingInstance.Fatalf("parsing flags: %v", parseError)
	}

	flags := &scanFlags{format: "json", maxDepth: unlimitedDepth, tokenizerModel: defaultTokenizerModel}
	hiddenValue := true
	useGitignoreValue := false
	depthValue := 4
	configuration := config.ApplicationConfiguration{
		Format:       "show",
		Hidden:       &hiddenValue,
		MaxDepth:     &depthValue,
		UseGitignore: &useGitignoreValue,
		Ignore:       []string{"*.log"},
		Tokens:       config.TokenConfiguration{Model: "gpt-4"},
	}

	applyConfigurationDefaults(command, flags, configuration)

	if flags.format != "json" {
		testingInstance.Fatalf("explicit flags must win over configuration, got format %q", flags.format)
	}
	if !flags.includeHidden {
		testingInstance.Fatalf("configuration hidden must apply to unset flags")
	}
	if flags.maxDepth != 4 {
		testingInstance.Fatalf("configuration max_depth must apply, got %d", flags.maxDepth)
	}
	if !flags.noGitignore {
		testingInstance.Fatalf("use_gitignore false must disable gitignore processing")
	}
	if !reflect.DeepEqual(flags.ignorePatterns, []string{"*.log"}) {
		testingInstance.Fatalf("configuration ignore patterns must apply, got %v", flags.ignorePatterns)
	}
	if flags.tokenizerModel != "gpt-4" {
		testingInstance.Fatalf("configuration tokenizer model must apply, got %q", flags.tokenizerModel)
	}
}
