package nutrition

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode serializes entries as a JSON array. A nil slice encodes as [].
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode food log: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of entries. A JSON null decodes to an empty
// log; array elements that are not objects are skipped.
func Decode(data []byte) ([]Entry, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode food log: %w", err)
	}

	var entries []Entry
	for _, raw := range items {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("decode food log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
