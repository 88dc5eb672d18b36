// Package utils contains general helper functions used across the inspect tool.
package utils

import (
	"path/filepath"
)

// Filesystem and configuration constants used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the optional application configuration file.
	ConfigFileName = ".inspect.yaml"
	// GlobalConfigDirectoryName is the directory under the user home that holds the global configuration.
	GlobalConfigDirectoryName = ".config/inspect"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// RelativePathOrSelf calculates the POSIX-style relative path from root to fullPath.
// Returns the entry's base name if relative calculation fails (the path lies
// outside root). Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)

	if cleanPath == cleanRoot {
		return "."
	}

	relativePath, relativeError := filepath.Rel(cleanRoot, cleanPath)
	if relativeError != nil || pathEscapesRoot(relativePath) {
		return filepath.Base(cleanPath)
	}
	return filepath.ToSlash(relativePath)
}

// IsPathWithin reports whether candidatePath lexically equals rootPath or lies below it.
func IsPathWithin(candidatePath, rootPath string) bool {
	relativePath, relativeError := filepath.Rel(filepath.Clean(rootPath), filepath.Clean(candidatePath))
	if relativeError != nil {
		return false
	}
	return !pathEscapesRoot(relativePath)
}

// pathEscapesRoot reports whether a filepath.Rel result points outside the base.
func pathEscapesRoot(relativePath string) bool {
	return relativePath == ".." || len(relativePath) >= 3 && relativePath[:3] == ".."+string(filepath.Separator)
}
