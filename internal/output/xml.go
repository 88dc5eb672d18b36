package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/inspect/internal/types"
)

const (
	xmlDocumentHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	xmlRootElement    = "InspectResults"
	xmlIndentUnit     = "  "
)

// RenderXML writes the verbose XML document. Directories become nested
// Directory elements, files become File elements, and file content is
// wrapped in a character-data block. Top-level nodes are labelled with their
// relative path instead of their bare name to disambiguate merged roots.
func RenderXML(writer io.Writer, nodes []*types.TreeNode, metadata types.RunMetadata) error {
	rootAttributes := fmt.Sprintf(` absolute_path="%s"`, escapeXMLAttribute(metadata.AbsolutePath))
	if metadata.RepositoryRoot != "" {
		rootAttributes += fmt.Sprintf(` repository_root="%s"`, escapeXMLAttribute(metadata.RepositoryRoot))
	}

	if _, writeError := fmt.Fprintf(writer, "%s<%s%s>\n", xmlDocumentHeader, xmlRootElement, rootAttributes); writeError != nil {
		return writeError
	}
	for _, node := range nodes {
		if renderError := renderXMLNode(writer, node, 1, true); renderError != nil {
			return renderError
		}
	}
	_, writeError := fmt.Fprintf(writer, "</%s>\n", xmlRootElement)
	return writeError
}

// renderXMLNode writes one node and its descendants at the given indent level.
func renderXMLNode(writer io.Writer, node *types.TreeNode, indentLevel int, isRoot bool) error {
	linePrefix := strings.Repeat(xmlIndentUnit, indentLevel)

	displayName := node.Name
	if isRoot {
		displayName = node.RelativePath
	}
	attributes := fmt.Sprintf(`name="%s"`, escapeXMLAttribute(displayName))
	if node.Size != nil {
		attributes += fmt.Sprintf(` size="%d"`, *node.Size)
	}
	if node.Modified != nil {
		attributes += fmt.Sprintf(` modified="%s"`, escapeXMLAttribute(*node.Modified))
	}

	if node.IsDirectory {
		if _, writeError := fmt.Fprintf(writer, "%s<Directory %s>\n", linePrefix, attributes); writeError != nil {
			return writeError
		}
		for _, childNode := range node.Children {
			if renderError := renderXMLNode(writer, childNode, indentLevel+1, false); renderError != nil {
				return renderError
			}
		}
		_, writeError := fmt.Fprintf(writer, "%s</Directory>\n", linePrefix)
		return writeError
	}

	if node.Content == nil {
		_, writeError := fmt.Fprintf(writer, "%s<File %s />\n", linePrefix, attributes)
		return writeError
	}

	if _, writeError := fmt.Fprintf(writer, "%s<File %s>\n", linePrefix, attributes); writeError != nil {
		return writeError
	}
	if _, writeError := fmt.Fprintf(writer, "%s%s<![CDATA[\n", linePrefix, xmlIndentUnit); writeError != nil {
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
	if _, writeError := fmt.Fprintf(writer, "%s%s]]>\n", linePrefix, xmlIndentUnit); writeError != nil {
		return writeError
	}
	_, writeError := fmt.Fprintf(writer, "%s</File>\n", linePrefix)
	return writeError
}

// escapeXMLAttribute escapes a string for use inside a double-quoted XML attribute.
func escapeXMLAttribute(value string) string {
	var escaped strings.Builder
	if escapeError := xml.EscapeText(&escaped, []byte(value)); escapeError != nil {
		return value
	}
	return strings.ReplaceAll(escaped.String(), `&#34;`, `&quot;`)
}
