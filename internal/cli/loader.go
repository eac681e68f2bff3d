package cli

import (
	"fmt"
	"io"
	"os"
)

// ReadDocumentSource reads raw document text from a file path, or from
// stdin when the path is "-". Envelope stripping and parsing happen later
// in the doc package; this only fetches bytes.
func ReadDocumentSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read document from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}
