package colony

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteDocument encodes doc as JSON indented by two spaces. HTML characters
// in names are written as is.
func WriteDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("error encoding colony document: %w", err)
	}
	return nil
}
