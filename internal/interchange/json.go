package interchange

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON serializes a schedule file as indented JSON.
func WriteJSON(w io.Writer, file *ScheduleFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encode schedule file: %w", err)
	}
	return nil
}

// ReadJSON deserializes a schedule file. Unknown fields are rejected so
// typos in hand-edited files surface instead of silently dropping data.
func ReadJSON(r io.Reader) (*ScheduleFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var file ScheduleFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode schedule file: %w", err)
	}
	return &file, nil
}
