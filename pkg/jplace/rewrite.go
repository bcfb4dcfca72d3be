package jplace

import (
	"encoding/json"
	"fmt"

	"github.com/DininduSenanayake/singlem/pkg/otu"
)

// Rewrite re-keys a placement document from individual reads to OTU window
// sequences. Multiplicities of all reads collapsing to one OTU are summed
// and the placement-edge descriptor of the OTU's first-encountered
// contributing read is kept as the representative (reads in one OTU place
// near-identically by construction). Every read named in the document must
// belong to exactly one of the given OTUs; anything else means the
// placement stage ran out of sync with the alignment stage and is fatal.
func Rewrite(doc *Document, otus []otu.AggregatedOtu) (*Document, error) {
	if doc.Version != SupportedVersion {
		return nil, fmt.Errorf("unsupported jplace version %d, only version %d is handled", doc.Version, SupportedVersion)
	}

	read_to_otu := make(map[string]*otu.AggregatedOtu)
	for i := range otus {
		for _, name := range otus[i].ReadNames {
			read_to_otu[name] = &otus[i]
		}
	}

	counts := make(map[string]float64)
	representative := make(map[string]json.RawMessage)
	first_seen := make(map[string]json.RawMessage)
	var order []string

	for i, placement := range doc.Placements {
		if !placement.hasNM {
			return nil, fmt.Errorf("unexpected jplace format: placement %d has no nm field", i)
		}
		for _, nm := range placement.NM {
			name := otu.CanonicalReadName(nm.Name)
			owner, ok := read_to_otu[name]
			if !ok {
				return nil, fmt.Errorf("placed read %s does not belong to any OTU", name)
			}

			if _, ok := counts[owner.Sequence]; !ok {
				order = append(order, owner.Sequence)
				first_seen[owner.Sequence] = placement.P
			}
			counts[owner.Sequence] += nm.Multiplicity

			// First placement of the first-encountered contributor wins;
			// later entries for the same read must not displace it.
			if name == owner.ReadNames[0] {
				if _, ok := representative[owner.Sequence]; !ok {
					representative[owner.Sequence] = placement.P
				}
			}
		}
	}

	rewritten := make([]Placement, 0, len(order))
	for _, sequence := range order {
		p, ok := representative[sequence]
		if !ok {
			// First contributor was never placed; fall back to the first
			// placement that mentioned this OTU.
			p = first_seen[sequence]
		}
		rewritten = append(rewritten, Placement{
			NM:    []NameMultiplicity{{Name: sequence, Multiplicity: counts[sequence]}},
			P:     p,
			hasNM: true,
		})
	}

	out := &Document{
		Version:    doc.Version,
		Placements: rewritten,
		extra:      doc.extra,
	}
	return out, nil
}
