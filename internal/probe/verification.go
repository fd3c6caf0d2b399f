package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
)

// verifyRoundTrip checks that the response body parses deep-equal to the
// local dataset file. Both sides decode with json.Number so numeric
// literals compare exactly.
func verifyRoundTrip(body []byte, dataFile string) (bool, error) {
	raw, err := os.ReadFile(dataFile)
	if err != nil {
		return false, fmt.Errorf("failed to read dataset file: %w", err)
	}

	served, err := decodeDocument(body)
	if err != nil {
		return false, fmt.Errorf("failed to decode served body: %w", err)
	}
	local, err := decodeDocument(raw)
	if err != nil {
		return false, fmt.Errorf("failed to decode dataset file: %w", err)
	}

	return reflect.DeepEqual(served, local), nil
}

// decodeDocument parses a JSON document preserving numeric literals.
func decodeDocument(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
