// Package jplace models phylogenetic placement (jplace) documents and
// rewrites their placements from read-keyed to OTU-keyed.
package jplace

import (
	"encoding/json"
	"fmt"
)

// SupportedVersion is the only jplace format version understood here.
const SupportedVersion = 3

// NameMultiplicity is one [read_name, multiplicity] pair of a placement's
// "nm" field.
type NameMultiplicity struct {
	Name         string
	Multiplicity float64
}

// UnmarshalJSON decodes the two-element array form used on the wire.
func (nm *NameMultiplicity) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("unexpected nm entry of %d elements, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &nm.Name); err != nil {
		return fmt.Errorf("nm entry name: %w", err)
	}
	if err := json.Unmarshal(raw[1], &nm.Multiplicity); err != nil {
		return fmt.Errorf("nm entry multiplicity: %w", err)
	}
	return nil
}

// MarshalJSON re-encodes the pair as a two-element array.
func (nm NameMultiplicity) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{nm.Name, nm.Multiplicity})
}

// Placement is one placement event. P is the placement-edge descriptor,
// opaque to this system and copied through verbatim. A nil NM means the
// document did not carry the field at all, which is structurally invalid
// for the rewrite.
type Placement struct {
	NM []NameMultiplicity `json:"nm,omitempty"`
	P  json.RawMessage    `json:"p"`

	hasNM bool
}

func (p *Placement) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if nm, ok := raw["nm"]; ok {
		p.hasNM = true
		if err := json.Unmarshal(nm, &p.NM); err != nil {
			return err
		}
	}
	if pp, ok := raw["p"]; ok {
		p.P = pp
	}
	return nil
}

// Document is a parsed jplace file. Fields other than version and
// placements are retained as raw JSON and re-emitted untouched.
type Document struct {
	Version    int
	Placements []Placement

	extra map[string]json.RawMessage
}

// Parse decodes a jplace document without validating its version; the
// rewrite step owns that check.
func Parse(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse jplace document: %w", err)
	}

	doc := &Document{extra: make(map[string]json.RawMessage)}
	for key, value := range raw {
		switch key {
		case "version":
			if err := json.Unmarshal(value, &doc.Version); err != nil {
				return nil, fmt.Errorf("jplace version field: %w", err)
			}
		case "placements":
			if err := json.Unmarshal(value, &doc.Placements); err != nil {
				return nil, fmt.Errorf("jplace placements field: %w", err)
			}
		default:
			doc.extra[key] = value
		}
	}

	return doc, nil
}

// MarshalJSON re-assembles the document. Key order is the stdlib's sorted
// order, which keeps repeated runs byte-identical.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.extra)+2)
	for key, value := range d.extra {
		out[key] = value
	}
	out["version"] = d.Version
	out["placements"] = d.Placements
	return json.Marshal(out)
}
