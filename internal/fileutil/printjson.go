package fileutil

import (
	"encoding/json"
	"io"
)

// PrintJSON writes an indented JSON rendering of value to w.
func PrintJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
