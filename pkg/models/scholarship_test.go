package models

import (
	"reflect"
	"testing"
)

func TestDecodeStringList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"normal", `["SC","ST","OBC"]`, []string{"SC", "ST", "OBC"}},
		{"empty array", `[]`, []string{}},
		{"empty string", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"json null", "null", []string{}},
		{"malformed", `["SC",`, []string{}},
		{"wrong type", `{"a":1}`, []string{}},
		{"plain text garbage", "SC, ST", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeStringList(tt.raw)
			if got == nil {
				t.Fatal("decode returned nil, want empty list")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeStringList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeFAQList(t *testing.T) {
	got := DecodeFAQList(`[{"q":"Who can apply?","a":"Any student domiciled in the state."}]`)
	if len(got) != 1 || got[0].Question != "Who can apply?" {
		t.Errorf("unexpected decode: %+v", got)
	}

	for _, raw := range []string{"", "null", `[{`, `"not a list"`} {
		if got := DecodeFAQList(raw); got == nil || len(got) != 0 {
			t.Errorf("DecodeFAQList(%q) = %v, want empty list", raw, got)
		}
	}
}

func TestEncodeStringList(t *testing.T) {
	if got := EncodeStringList(nil); got != "[]" {
		t.Errorf("EncodeStringList(nil) = %q, want []", got)
	}
	if got := EncodeStringList([]string{"SC", "ST"}); got != `["SC","ST"]` {
		t.Errorf("EncodeStringList = %q", got)
	}
}

func TestSplitSteps(t *testing.T) {
	tests := []struct {
		name  string
		guide string
		want  []string
	}{
		{
			"numbered",
			"1. Register on the NSP portal 2. Fill the application form 3. Upload documents",
			[]string{"Register on the NSP portal", "Fill the application form", "Upload documents"},
		},
		{
			"no markers",
			"Apply through the state portal before the deadline.",
			[]string{"Apply through the state portal before the deadline."},
		},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSteps(tt.guide)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSteps(%q) = %v, want %v", tt.guide, got, tt.want)
			}
		})
	}
}
