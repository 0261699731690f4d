// Package iojson are utilities for reading and writing JSON IO from a
// command line interface.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteLine encodes v as a single JSON line to w.
func WriteLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}

// ReadFile decodes a JSON document from path, or from stdin when path is
// "-" or empty.
func ReadFile[T any](path string) (T, error) {
	var input T

	var reader io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	}

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
