package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const gitExcludesConfigKey = "core.excludesfile"

// FindGitRoot searches upward from startPath for a directory containing a
// .git entry and returns it. The empty string is returned when no enclosing
// repository exists.
func FindGitRoot(startPath string) string {
	currentDirectory, absoluteError := filepath.Abs(startPath)
	if absoluteError != nil {
		return ""
	}
	for {
		gitPath := filepath.Join(currentDirectory, GitDirectoryName)
		if _, statError := os.Stat(gitPath); statError == nil {
			return currentDirectory
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return ""
		}
		currentDirectory = parentDirectory
	}
}

// GlobalGitignore resolves the globally configured Git excludes file and
// returns its parent directory together with its raw lines. Both results are
// empty when no excludes file is configured, the file is missing, or git is
// unavailable.
func GlobalGitignore() (string, []string) {
	// #nosec G204
	configOutput, configError := exec.Command("git", "config", "--get", gitExcludesConfigKey).Output()
	if configError != nil {
		return "", nil
	}
	excludesPath := strings.TrimSpace(string(configOutput))
	if excludesPath == "" {
		return "", nil
	}
	if strings.HasPrefix(excludesPath, "~") {
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", nil
		}
		excludesPath = filepath.Join(homeDirectory, strings.TrimPrefix(excludesPath, "~"))
	}
	absoluteExcludesPath, absoluteError := filepath.Abs(excludesPath)
	if absoluteError != nil {
		return "", nil
	}
	excludesData, readError := os.ReadFile(absoluteExcludesPath)
	if readError != nil {
		return "", nil
	}
	return filepath.Dir(absoluteExcludesPath), strings.Split(string(excludesData), "\n")
}
