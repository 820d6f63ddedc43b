package project

import (
	"testing"
)

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
		size int
	}{
		{"empty", "", true, 0},
		{"blank", "   ", true, 0},
		{"object", `{"industry":"finance","features":["a"]}`, true, 2},
		{"array", `["a"]`, false, 0},
		{"null", `null`, false, 0},
		{"garbage", `{industry:`, false, 0},
		{"string", `"finance"`, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, ok := ParseMetadata(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ParseMetadata(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if len(md) != tt.size {
				t.Errorf("len = %d, want %d", len(md), tt.size)
			}
		})
	}
}

func TestProject_Metadata(t *testing.T) {
	var nilProject *Project
	if _, ok := nilProject.Metadata(); ok {
		t.Error("nil project should have no metadata")
	}

	p := New("p1", nil)
	md, ok := p.Metadata()
	if !ok || md == nil || len(md) != 0 {
		t.Errorf("New with nil metadata = %v, %v", md, ok)
	}

	if _, ok := FromJSON("p2", "not json").Metadata(); ok {
		t.Error("malformed raw metadata should not decode")
	}

	md, ok = FromJSON("p3", `{"industry":"healthcare"}`).Metadata()
	if !ok || md.Industry() != "healthcare" {
		t.Errorf("FromJSON metadata = %v, %v", md, ok)
	}
}

func TestProject_FieldsWinOverRaw(t *testing.T) {
	p := &Project{ID: "p", Raw: `{"industry":"finance"}`, Fields: Metadata{"industry": "education"}}
	md, _ := p.Metadata()
	if md.Industry() != "education" {
		t.Errorf("Industry = %q, want education", md.Industry())
	}
}

func TestProject_Encode(t *testing.T) {
	var nilProject *Project
	if got := nilProject.Encode(); got != "" {
		t.Errorf("nil Encode = %q", got)
	}
	if got := FromJSON("p", `{"a":1}`).Encode(); got != `{"a":1}` {
		t.Errorf("raw Encode = %q", got)
	}
	if got := New("p", Metadata{"industry": "finance"}).Encode(); got != `{"industry":"finance"}` {
		t.Errorf("fields Encode = %q", got)
	}
	// Unencodable fields fall back to the raw text.
	p := &Project{Raw: `{"x":1}`, Fields: Metadata{"ch": make(chan int)}}
	if got := p.Encode(); got != `{"x":1}` {
		t.Errorf("fallback Encode = %q", got)
	}
}

func TestMetadata_String(t *testing.T) {
	md := Metadata{"s": "web", "empty": "", "num": 42, "nil": nil, "list": []any{"a"}}

	if s, ok := md.String("s"); !ok || s != "web" {
		t.Errorf("String(s) = %q, %v", s, ok)
	}
	if s, ok := md.String("num"); !ok || s != "42" {
		t.Errorf("String(num) = %q, %v", s, ok)
	}
	for _, key := range []string{"empty", "nil", "missing", "list"} {
		if _, ok := md.String(key); ok {
			t.Errorf("String(%s) should not be ok", key)
		}
	}
}

func TestMetadata_Defaults(t *testing.T) {
	md := Metadata{}
	if md.Domain() != DefaultDomain || md.Industry() != DefaultIndustry || md.ProjectType() != DefaultProjectType {
		t.Errorf("defaults = %q %q %q", md.Domain(), md.Industry(), md.ProjectType())
	}
	if got := md.StringOr(KeyDomain, "x"); got != "x" {
		t.Errorf("StringOr = %q", got)
	}
}

func TestMetadata_Number(t *testing.T) {
	md := Metadata{"int": 20000, "float": 1.5, "text": "12000", "bad": "lots", "nil": nil}

	tests := []struct {
		key   string
		n     float64
		ok    bool
		valid bool
	}{
		{"int", 20000, true, true},
		{"float", 1.5, true, true},
		{"text", 12000, true, true},
		{"bad", 0, true, false},
		{"nil", 0, false, true},
		{"missing", 0, false, true},
	}
	for _, tt := range tests {
		n, ok, valid := md.Number(tt.key)
		if n != tt.n || ok != tt.ok || valid != tt.valid {
			t.Errorf("Number(%s) = %v, %v, %v; want %v, %v, %v", tt.key, n, ok, valid, tt.n, tt.ok, tt.valid)
		}
	}
}

func TestMetadata_Count(t *testing.T) {
	md := Metadata{
		"any":     []any{"a", "b"},
		"strings": []string{"a", "b", "c"},
		"scalar":  "payments",
		"nil":     nil,
	}

	tests := []struct {
		key   string
		n     int
		valid bool
	}{
		{"any", 2, true},
		{"strings", 3, true},
		{"scalar", 0, false},
		{"nil", 0, true},
		{"missing", 0, true},
	}
	for _, tt := range tests {
		n, valid := md.Count(tt.key)
		if n != tt.n || valid != tt.valid {
			t.Errorf("Count(%s) = %d, %v; want %d, %v", tt.key, n, valid, tt.n, tt.valid)
		}
	}
}
