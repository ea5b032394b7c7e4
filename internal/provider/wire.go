package provider

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// flexString decodes a JSON string, number or {"value": ...} object.
// Providers are inconsistent about which one they send for dates and URLs.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case '{':
		var obj struct {
			Value flexString `json:"value"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*f = obj.Value
	default:
		*f = flexString(b)
	}
	return nil
}

// flexAmount decodes a JSON number, numeric string or money object
// ({"value_usd": n} or {"value": n}).
type flexAmount float64

func (f *flexAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	switch b[0] {
	case '{':
		var obj struct {
			ValueUSD *flexAmount `json:"value_usd"`
			Value    *flexAmount `json:"value"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		switch {
		case obj.ValueUSD != nil:
			*f = *obj.ValueUSD
		case obj.Value != nil:
			*f = *obj.Value
		default:
			*f = 0
		}
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexAmount(v)
	default:
		v, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		*f = flexAmount(v)
	}
	return nil
}

// identifiers is a list of {"value": ...} entity references.
type identifiers []struct {
	Value flexString `json:"value"`
}

func (ids identifiers) values() []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id.Value != "" {
			out = append(out, string(id.Value))
		}
	}
	return out
}

func (ids identifiers) first() string {
	if len(ids) == 0 {
		return ""
	}
	return string(ids[0].Value)
}

// decodeList decodes raw as a JSON array of T. Anything else yields an empty
// list.
func decodeList[T any](raw json.RawMessage) []T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}
