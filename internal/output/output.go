// Package output renders a scan forest in the supported output encodings.
package output

import (
	"fmt"
	"io"

	"github.com/temirov/inspect/internal/types"
)

// errorUnknownFormatFormat reports an unrecognized output format name.
const errorUnknownFormatFormat = "unknown output format '%s'"

// rootDisplayName replaces each top-level node's name in the JSON encodings:
// the absolute base directory is already part of the run metadata.
const rootDisplayName = "."

// Render writes the forest in the requested format. The forest is treated as
// read-only. Format validity is the caller's concern; an unknown name is
// still rejected defensively.
func Render(writer io.Writer, format string, nodes []*types.TreeNode, metadata types.RunMetadata) error {
	switch format {
	case types.FormatXML:
		return RenderXML(writer, nodes, metadata)
	case types.FormatJSON:
		return RenderJSON(writer, nodes, metadata)
	case types.FormatCompact:
		return RenderCompactJSON(writer, nodes, metadata)
	case types.FormatShow:
		return RenderShow(writer, nodes, metadata)
	default:
		return fmt.Errorf(errorUnknownFormatFormat, format)
	}
}
