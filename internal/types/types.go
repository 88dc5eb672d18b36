// Package types defines the cross-package data structures used by the inspect CLI.
package types

const (
	// FormatXML renders the verbose XML document.
	FormatXML = "xml"
	// FormatJSON renders the structured JSON document.
	FormatJSON = "json"
	// FormatCompact renders the size-optimized JSON document.
	FormatCompact = "compact"
	// FormatShow renders the plain-text content dump.
	FormatShow = "show"
)

// SupportedFormats lists every recognized output format in display order.
var SupportedFormats = []string{FormatXML, FormatJSON, FormatCompact, FormatShow}

// TreeNode is one filesystem entry in the merged scan forest.
//
// AbsolutePath identifies the node while scan roots are merged and is never
// serialized. RelativePath is POSIX-style, computed against the invocation
// base directory, and stable across platforms. Content is nil for directories
// and for files whose content was not selected or could not be decoded.
// Children is meaningful only for directories and is kept sorted
// (directories first, then case-insensitive name ascending) once a scan
// completes. Encoders must treat a finished forest as read-only.
type TreeNode struct {
	Name         string
	AbsolutePath string
	RelativePath string
	IsDirectory  bool
	Size         *int64
	Modified     *string
	Tokens       *int
	Content      *string
	Children     []*TreeNode
}

// RunMetadata carries scan-level facts the encoders render but the core does
// not format: the absolute invocation base directory and the repository root
// detected for it, empty when no repository encloses the base directory.
type RunMetadata struct {
	AbsolutePath   string
	RepositoryRoot string
}
