package match

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ExtractJSONArray returns the first well-formed JSON array embedded in
// text. Brackets that do not open valid JSON are skipped. ok is false when
// no array is found.
func ExtractJSONArray(text string) (json.RawMessage, bool) {
	return firstJSON(text, '[', nil)
}

// ExtractJSONObject returns the first well-formed JSON object embedded in
// text.
func ExtractJSONObject(text string) (json.RawMessage, bool) {
	return firstJSON(text, '{', nil)
}

// firstJSON scans text for values starting with open and returns the first
// that parses and that accept, when given, approves.
func firstJSON(text string, open byte, accept func(json.RawMessage) bool) (json.RawMessage, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err != nil {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != open {
			continue
		}
		if accept == nil || accept(raw) {
			return raw, true
		}
	}
	return nil, false
}

// score decodes a match score given as a number or a numeric string.
type score float64

func (s *score) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch n := v.(type) {
	case float64:
		*s = score(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			*s = score(f)
		}
	}
	return nil
}

// int clamps the score to 0..100.
func (s score) int() int {
	v := float64(s)
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v + 0.5)
}
