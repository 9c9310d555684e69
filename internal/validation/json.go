package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// DecodeJSON reads a JSON object and normalizes its values to the raw
// strings a form would submit. Numbers keep their literal text, so 1.0 stays
// "1.0" and fails integer coercion.
func DecodeJSON(r io.Reader) (Submission, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("invalid request body: expected a JSON object")
	}

	sub := make(Submission, len(raw))
	for k, v := range raw {
		sub[k] = stringify(v)
	}
	return sub, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}
