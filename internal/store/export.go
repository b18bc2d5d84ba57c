package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// record is the JSON shape of an exported sheet. lastModified is in
// milliseconds since the Unix epoch. Lines is accepted on import for
// exports that stored content as an array of lines.
type record struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Content      string   `json:"content"`
	LastModified int64    `json:"lastModified"`
	Lines        []string `json:"lines,omitempty"`
}

// ErrInvalidExport is returned by ReadJSON for malformed input.
var ErrInvalidExport = errors.New("invalid sheet export")

// WriteJSON writes sheets as an indented JSON array.
func WriteJSON(w io.Writer, sheets []Sheet) error {
	recs := make([]record, len(sheets))
	for i, s := range sheets {
		recs[i] = record{
			ID:           s.ID,
			Name:         s.Name,
			Content:      s.Content,
			LastModified: s.LastModified.UnixMilli(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// ReadJSON parses an array written by WriteJSON. Every entry needs an id
// and a name; an empty array is rejected.
func ReadJSON(r io.Reader) ([]Sheet, error) {
	var recs []record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: no sheets", ErrInvalidExport)
	}

	sheets := make([]Sheet, len(recs))
	for i, rec := range recs {
		if strings.TrimSpace(rec.ID) == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidExport, i)
		}
		if strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidExport, i)
		}
		content := rec.Content
		if content == "" && rec.Lines != nil {
			content = strings.Join(rec.Lines, "\n")
		}
		modified := time.UnixMilli(rec.LastModified)
		if rec.LastModified == 0 {
			modified = time.Now()
		}
		sheets[i] = Sheet{
			ID:           rec.ID,
			Name:         rec.Name,
			Content:      content,
			LastModified: modified,
		}
	}
	return sheets, nil
}
