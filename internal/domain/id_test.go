package domain

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want ID
	}{
		{`"42"`, "42"},
		{`42`, "42"},
		{`"c-9f2"`, "c-9f2"},
		{`null`, ""},
	}
	for _, c := range cases {
		var id ID
		if err := json.Unmarshal([]byte(c.in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", c.in, err)
		}
		if id != c.want {
			t.Errorf("unmarshal %s = %q, want %q", c.in, id, c.want)
		}
	}
}

func TestIDEqualAcrossForms(t *testing.T) {
	var numeric, str ID
	json.Unmarshal([]byte(`42`), &numeric)
	json.Unmarshal([]byte(`"42"`), &str)
	if !numeric.Equal(str) {
		t.Error("numeric and string forms of the same id must compare equal")
	}
}

func TestNormalizeID(t *testing.T) {
	cases := []struct {
		in   any
		want ID
	}{
		{"7", "7"},
		{7, "7"},
		{int64(7), "7"},
		{float64(7), "7"},
		{json.Number("7"), "7"},
		{ID("7"), "7"},
		{struct{}{}, ""},
	}
	for _, c := range cases {
		if got := NormalizeID(c.in); got != c.want {
			t.Errorf("NormalizeID(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
