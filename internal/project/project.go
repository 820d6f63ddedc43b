// Package project models the project a HACF session works on and the
// free-form metadata the project provider attaches to it.
//
// Metadata arrives from outside as either a decoded map or a raw JSON
// string. Every accessor returns (value, ok) so callers make the fallback
// to a documented default an explicit branch.
package project

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

// Documented defaults for absent metadata fields.
const (
	DefaultDomain      = "general"
	DefaultIndustry    = "technology"
	DefaultCodeSize    = 4500
	DefaultProjectType = "web_application"
)

// Metadata keys understood by the engine.
const (
	KeyDomain       = "domain"
	KeyIndustry     = "industry"
	KeyCodeSize     = "estimated_code_size"
	KeyFeatures     = "features"
	KeyIntegrations = "integrations"
	KeyProjectType  = "project_type"
)

// Metadata is the generic string-keyed map supplied by the project provider.
type Metadata map[string]any

// Project is the unit of work a session plans for.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`

	// Raw holds metadata as the provider stored it (JSON text).
	// It is consulted only when Fields is nil.
	Raw string `json:"metadata,omitempty"`

	// Fields holds already-decoded metadata.
	Fields Metadata `json:"-"`
}

// New creates a project from decoded metadata.
func New(id string, md Metadata) *Project {
	if md == nil {
		md = Metadata{}
	}
	return &Project{ID: id, Fields: md}
}

// FromJSON creates a project whose metadata is raw JSON text. Decoding is
// deferred to Metadata so malformed input is reported where it is used.
func FromJSON(id, raw string) *Project {
	return &Project{ID: id, Raw: raw}
}

// Metadata returns the decoded metadata. ok is false when the project is
// nil or its raw metadata is not a JSON object.
func (p *Project) Metadata() (Metadata, bool) {
	if p == nil {
		return nil, false
	}
	if p.Fields != nil {
		return p.Fields, true
	}
	return ParseMetadata(p.Raw)
}

// Encode returns the metadata as JSON text for persistence.
func (p *Project) Encode() string {
	if p == nil {
		return ""
	}
	if p.Fields == nil {
		return p.Raw
	}
	data, err := json.Marshal(p.Fields)
	if err != nil {
		return p.Raw
	}
	return string(data)
}

// ParseMetadata decodes raw JSON metadata. Empty input is an empty,
// valid map; anything that is not a JSON object is rejected.
func ParseMetadata(raw string) (Metadata, bool) {
	if strings.TrimSpace(raw) == "" {
		return Metadata{}, true
	}
	var md Metadata
	if err := json.Unmarshal([]byte(raw), &md); err != nil || md == nil {
		return nil, false
	}
	return md, true
}

// String returns a non-empty string field.
func (m Metadata) String(key string) (string, bool) {
	v, present := m[key]
	if !present || v == nil {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

// StringOr returns the string field or def when it is absent.
func (m Metadata) StringOr(key, def string) string {
	if s, ok := m.String(key); ok {
		return s
	}
	return def
}

// Number returns a numeric field. ok is false when the key is absent;
// valid is false when the key is present but cannot be read as a number.
func (m Metadata) Number(key string) (n float64, ok bool, valid bool) {
	v, present := m[key]
	if !present || v == nil {
		return 0, false, true
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, true, false
	}
	return f, true, true
}

// Count returns the number of entries of a list field. Absent lists count
// as zero; a present value that is not a list is invalid.
func (m Metadata) Count(key string) (n int, valid bool) {
	v, present := m[key]
	if !present || v == nil {
		return 0, true
	}
	switch list := v.(type) {
	case []any:
		return len(list), true
	case []string:
		return len(list), true
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return 0, false
	}
	return len(items), true
}

// Domain returns the project domain, defaulting to "general".
func (m Metadata) Domain() string { return m.StringOr(KeyDomain, DefaultDomain) }

// Industry returns the project industry, defaulting to "technology".
func (m Metadata) Industry() string { return m.StringOr(KeyIndustry, DefaultIndustry) }

// ProjectType returns the project type, defaulting to "web_application".
func (m Metadata) ProjectType() string { return m.StringOr(KeyProjectType, DefaultProjectType) }
