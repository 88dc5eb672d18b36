package output

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/temirov/inspect/internal/types"
)

// jsonDocument is the top-level shape of the structured JSON encoding.
type jsonDocument struct {
	AbsolutePath   string      `json:"absolute_path"`
	RepositoryRoot *string     `json:"repository_root"`
	Results        []*jsonNode `json:"results"`
}

// jsonNode is the structured JSON projection of one tree node.
type jsonNode struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Path     string        `json:"path"`
	Metadata *jsonMetadata `json:"metadata,omitempty"`
	Content  *string       `json:"content,omitempty"`
	Children *[]*jsonNode  `json:"children,omitempty"`
}

// jsonMetadata groups the optional per-node metadata fields.
type jsonMetadata struct {
	Size     *int64  `json:"size,omitempty"`
	Modified *string `json:"modified,omitempty"`
	Tokens   *int    `json:"tokens,omitempty"`
}

const (
	jsonTypeDirectory = "dir"
	jsonTypeFile      = "file"
)

// RenderJSON writes the structured JSON document: run metadata plus a
// "results" array of nodes. Top-level node names are normalized to ".".
func RenderJSON(writer io.Writer, nodes []*types.TreeNode, metadata types.RunMetadata) error {
	document := jsonDocument{
		AbsolutePath:   metadata.AbsolutePath,
		RepositoryRoot: optionalString(metadata.RepositoryRoot),
		Results:        make([]*jsonNode, 0, len(nodes)),
	}
	for _, node := range nodes {
		document.Results = append(document.Results, projectJSONNode(node, true))
	}

	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document)
}

// projectJSONNode converts a tree node into its structured JSON projection.
func projectJSONNode(node *types.TreeNode, isRoot bool) *jsonNode {
	displayName := node.Name
	if isRoot {
		displayName = rootDisplayName
	}

	nodeType := jsonTypeFile
	if node.IsDirectory {
		nodeType = jsonTypeDirectory
	}

	projected := &jsonNode{
		Name:     displayName,
		Type:     nodeType,
		Path:     node.RelativePath,
		Metadata: projectJSONMetadata(node),
		Content:  node.Content,
	}
	if node.IsDirectory {
		children := make([]*jsonNode, 0, len(node.Children))
		for _, childNode := range node.Children {
			children = append(children, projectJSONNode(childNode, false))
		}
		projected.Children = &children
	}
	return projected
}

// projectJSONMetadata returns the metadata object, or nil when every field is absent.
func projectJSONMetadata(node *types.TreeNode) *jsonMetadata {
	if node.Size == nil && node.Modified == nil && node.Tokens == nil {
		return nil
	}
	return &jsonMetadata{Size: node.Size, Modified: node.Modified, Tokens: node.Tokens}
}

// compactDocument is the top-level shape of the compact JSON encoding.
type compactDocument struct {
	Meta compactMeta    `json:"meta"`
	Data []*compactNode `json:"data"`
}

// compactMeta carries the run metadata under single-letter-style short keys.
type compactMeta struct {
	AbsolutePath   string  `json:"abs"`
	RepositoryRoot *string `json:"repo"`
}

// compactNode is the size-optimized projection: "n" for name, "c" for
// children; type, path, and metadata are omitted entirely.
type compactNode struct {
	Name     string          `json:"n"`
	Children *[]*compactNode `json:"c,omitempty"`
	Content  *string         `json:"content,omitempty"`
}

// RenderCompactJSON writes the size-optimized JSON document without any
// indentation or trailing newline.
func RenderCompactJSON(writer io.Writer, nodes []*types.TreeNode, metadata types.RunMetadata) error {
	document := compactDocument{
		Meta: compactMeta{
			AbsolutePath:   metadata.AbsolutePath,
			RepositoryRoot: optionalString(metadata.RepositoryRoot),
		},
		Data: make([]*compactNode, 0, len(nodes)),
	}
	for _, node := range nodes {
		document.Data = append(document.Data, projectCompactNode(node, true))
	}

	var encoded bytes.Buffer
	encoder := json.NewEncoder(&encoded)
	encoder.SetEscapeHTML(false)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return encodeError
	}
	_, writeError := writer.Write(bytes.TrimRight(encoded.Bytes(), "\n"))
	return writeError
}

// projectCompactNode converts a tree node into its compact projection.
func projectCompactNode(node *types.TreeNode, isRoot bool) *compactNode {
	displayName := node.Name
	if isRoot {
		displayName = rootDisplayName
	}

	projected := &compactNode{Name: displayName, Content: node.Content}
	if node.IsDirectory {
		children := make([]*compactNode, 0, len(node.Children))
		for _, childNode := range node.Children {
			children = append(children, projectCompactNode(childNode, false))
		}
		projected.Children = &children
	}
	return projected
}

// optionalString returns nil for the empty string so absent values serialize as null.
func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
