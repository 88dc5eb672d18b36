package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/inspect/internal/types"
)

const (
	showSeparator         = "=========================================="
	showHeaderFormat      = "Absolute Path: %s"
	showRepositoryFormat  = " (Repo Root: %s)"
	showFileLabelFormat   = "File: %s\n"
	showSizeLineFormat    = "Size: %d bytes\n"
	showModifiedFormat    = "Modified: %s\n"
	showTokensLineFormat  = "Tokens: %d\n"
	showContentStartLabel = "\n--- Content Start ---\n"
	showContentEndLabel   = "--- Content End ---\n\n"
)

// RenderShow writes the plain-text content dump: a header naming the base
// directory, then one delimited block per file that carries content.
// Directories are descended silently and contentless files are skipped.
func RenderShow(writer io.Writer, nodes []*types.TreeNode, metadata types.RunMetadata) error {
	headerLine := fmt.Sprintf(showHeaderFormat, metadata.AbsolutePath)
	if metadata.RepositoryRoot != "" {
		headerLine += fmt.Sprintf(showRepositoryFormat, metadata.RepositoryRoot)
	}
	if _, writeError := fmt.Fprintf(writer, "%s\n\n", headerLine); writeError != nil {
		return writeError
	}

	for _, node := range nodes {
		if renderError := renderShowNode(writer, node); renderError != nil {
			return renderError
		}
	}
	return nil
}

// renderShowNode prints the block for one content-bearing file and recurses
// through directories.
func renderShowNode(writer io.Writer, node *types.TreeNode) error {
	if !node.IsDirectory && node.Content != nil {
		if printError := printShowFile(writer, node); printError != nil {
			return printError
		}
	}
	for _, childNode := range node.Children {
		if renderError := renderShowNode(writer, childNode); renderError != nil {
			return renderError
		}
	}
	return nil
}

// printShowFile writes the delimited block for a single file.
func printShowFile(writer io.Writer, node *types.TreeNode) error {
	if _, writeError := fmt.Fprintf(writer, "%s\n", showSeparator); writeError != nil {
		return writeError
	}
	if _, writeError := fmt.Fprintf(writer, showFileLabelFormat, node.RelativePath); writeError != nil {
		return writeError
	}
	if _, writeError := fmt.Fprintf(writer, "%s\n", showSeparator); writeError != nil {
		return writeError
	}

	if node.Size != nil {
		if _, writeError := fmt.Fprintf(writer, showSizeLineFormat, *node.Size); writeError != nil {
			return writeError
		}
	}
	if node.Modified != nil {
		if _, writeError := fmt.Fprintf(writer, showModifiedFormat, *node.Modified); writeError != nil {
			return writeError
		}
	}
	if node.Tokens != nil {
		if _, writeError := fmt.Fprintf(writer, showTokensLineFormat, *node.Tokens); writeError != nil {
			return writeError
		}
	}

	if _, writeError := io.WriteString(writer, showContentStartLabel); writeError != nil {
		return writeError
	}
	if _, writeError := io.WriteString(writer, *node.Content); writeError != nil {
		return writeError
	}
	if !strings.HasSuffix(*node.Content, "\n") {
		if _, writeError := io.WriteString(writer, "\n"); writeError != nil {
			return writeError
		}
	}
	_, writeError := io.WriteString(writer, showContentEndLabel)
	return writeError
}
