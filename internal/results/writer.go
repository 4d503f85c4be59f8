// Package results persists and renders the record set produced by a batch
// run.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deedscan/deedscan/internal/record"
)

// WriteJSON writes the full result set to path as one JSON array, replacing
// any previous content. The write goes through a temp file and rename so a
// crash mid-write never leaves a truncated checkpoint behind.
func WriteJSON(path string, rs record.ResultSet) error {
	if rs == nil {
		rs = record.ResultSet{}
	}
	b, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".results-*.json")
	if err != nil {
		return fmt.Errorf("create temp results file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close results file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename results file: %w", err)
	}
	return nil
}

func writeFile(path string, b []byte) error {
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads a result set previously written by WriteJSON.
func ReadJSON(path string) (record.ResultSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var rs record.ResultSet
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("decode results file: %w", err)
	}
	return rs, nil
}
