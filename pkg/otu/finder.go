package otu

import (
	"fmt"
	"strings"

	"github.com/DininduSenanayake/singlem/pkg/seqio"
)

// SequenceWindow is the fixed-width nucleotide window extracted for one
// read. AlignedSequence contains three characters per window column (a
// codon, or "---" for a gap column) so that windows sharing a biological
// position compare equal by string equality. Coverage is this read's
// contribution to the window's depth estimate and AlignedLength the number
// of non-gap columns the read actually covers.
type SequenceWindow struct {
	Name            string
	AlignedSequence string
	Coverage        float64
	AlignedLength   int
}

const gapCodon = "---"

// FindWindowedSequences extracts one SequenceWindow per aligned read.
// Reads are matched to their nucleotide record by name after stripping the
// ORF/frame decoration added by the upstream translator. Reads with no
// nucleotides inside the window are dropped silently; output order follows
// the alignment's row order.
func FindWindowedSequences(alignment []seqio.AlignedProteinSequence, nucleotides []seqio.NucleotideRecord, spec WindowSpec) ([]SequenceWindow, error) {
	if len(alignment) == 0 {
		return nil, nil
	}

	columns := WindowColumns(alignment, spec)
	if len(columns) == 0 {
		return nil, nil
	}
	in_window := make(map[int]bool, len(columns))
	for _, c := range columns {
		in_window[c] = true
	}

	by_name := make(map[string]seqio.NucleotideRecord, len(nucleotides))
	for _, n := range nucleotides {
		by_name[n.Name] = n
	}

	var windows []SequenceWindow
	for _, row := range alignment {
		nuc, err := lookupNucleotides(by_name, row.Name)
		if err != nil {
			return nil, err
		}

		var window strings.Builder
		cursor := 0
		aligned_length := 0
		for i := 0; i < len(row.Seq); i++ {
			cell := row.Seq[i]
			codon := gapCodon
			if seqio.IsResidue(cell) {
				if cursor+3 > len(nuc.Seq) {
					return nil, fmt.Errorf("read %s: nucleotide sequence too short for its alignment", nuc.Name)
				}
				codon = nuc.Seq[cursor : cursor+3]
				cursor += 3
			}
			if !in_window[i] {
				continue
			}
			window.WriteString(codon)
			if seqio.IsResidue(cell) {
				aligned_length++
			}
		}

		if aligned_length == 0 {
			// Read does not reach the anchor region.
			continue
		}
		windows = append(windows, SequenceWindow{
			Name:            nuc.Name,
			AlignedSequence: window.String(),
			Coverage:        float64(aligned_length) / float64(spec.Width),
			AlignedLength:   aligned_length,
		})
	}

	return windows, nil
}

// lookupNucleotides resolves an aligned protein name to its nucleotide
// record. The aligned name normally carries the OrfM decoration; a bare
// frame suffix is also tolerated.
func lookupNucleotides(by_name map[string]seqio.NucleotideRecord, name string) (seqio.NucleotideRecord, error) {
	for _, candidate := range []string{UnOrfmName(name), CanonicalReadName(name), name} {
		if nuc, ok := by_name[candidate]; ok {
			return nuc, nil
		}
	}
	return seqio.NucleotideRecord{}, fmt.Errorf("no nucleotide sequence found for aligned read %s", name)
}
