package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ID is an entity identifier. Upstream data carries ids as both JSON numbers
// and JSON strings, sometimes for the same entity across endpoints, so every
// id is normalized to its string form at the decode boundary and compared as
// a string from then on.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON always emits the string form.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Equal compares two raw id values the way the console does everywhere:
// by canonical string form. "42" and 42 are the same entity.
func (id ID) Equal(other ID) bool { return string(id) == string(other) }

// NormalizeID converts an arbitrary raw id value (string, int, float from
// decoded JSON) to its canonical ID.
func NormalizeID(v any) ID {
	switch x := v.(type) {
	case string:
		return ID(x)
	case ID:
		return x
	case int:
		return ID(strconv.Itoa(x))
	case int64:
		return ID(strconv.FormatInt(x, 10))
	case float64:
		// JSON numbers decode as float64; ids are integral in practice.
		return ID(strconv.FormatInt(int64(x), 10))
	case json.Number:
		return ID(x.String())
	default:
		return ""
	}
}
