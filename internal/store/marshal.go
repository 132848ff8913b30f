package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"
)

// idKey is the body key reserved for the store-managed identifier.
const idKey = "_id"

// canonicalBody validates that body is a single JSON object and rewrites it
// for storage: "_id" dropped, strings NFC normalized, numbers kept exact, no
// HTML escaping.
func canonicalBody(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber() // avoid float64 precision loss

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc == nil {
		return "", fmt.Errorf("%w: body must be a JSON object", ErrInvalidDocument)
	}
	if _, err := dec.Token(); err != io.EOF {
		return "", fmt.Errorf("%w: trailing data after object", ErrInvalidDocument)
	}

	delete(doc, idKey)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalize(doc)); err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// normalize NFC-normalizes every string (keys included) in a decoded JSON
// value.
func normalize(v any) any {
	switch val := v.(type) {
	case string:
		return norm.NFC.String(val)
	case []any:
		for i, elem := range val {
			val[i] = normalize(elem)
		}
		return val
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[norm.NFC.String(k)] = normalize(elem)
		}
		return out
	default:
		return v
	}
}
