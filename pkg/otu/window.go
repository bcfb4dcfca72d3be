// Alignment column accounting: which columns of a gapped protein alignment
// make up the marker window.

package otu

import (
	"github.com/DininduSenanayake/singlem/pkg/seqio"
)

// DefaultWindowWidth is the number of match-state columns in a marker
// window unless configured otherwise.
const DefaultWindowWidth = 20

// WindowSpec fixes the window geometry for one pipeline invocation.
// AnchorPosition is the rank (0-based) of the window's first column counted
// over match-state columns only, i.e. in the coordinates of the profile the
// alignment was made against.
type WindowSpec struct {
	AnchorPosition int
	Width          int
	IncludeInserts bool
}

// insertColumns flags each alignment column that is an insert state. A
// column is an insert column when any row holds a lowercase residue or '.'
// there; in A2M output insert columns are global to the alignment.
func insertColumns(alignment []seqio.AlignedProteinSequence) []bool {
	if len(alignment) == 0 {
		return nil
	}
	inserts := make([]bool, alignment[0].Length())
	for _, row := range alignment {
		for i := 0; i < len(row.Seq); i++ {
			if seqio.IsInsertState(row.Seq[i]) {
				inserts[i] = true
			}
		}
	}
	return inserts
}

// anchorToAlignmentPosition converts a match-column rank to an absolute
// alignment column index. The second return is false when the alignment has
// fewer match columns than the rank requires.
func anchorToAlignmentPosition(anchor int, inserts []bool) (int, bool) {
	rank := 0
	for i, is_insert := range inserts {
		if is_insert {
			continue
		}
		if rank == anchor {
			return i, true
		}
		rank++
	}
	return 0, false
}

// chosenColumns returns the absolute alignment columns making up the
// window: walking forward from start, match columns are collected until
// width of them have been consumed, insert columns are collected only when
// includeInserts is set and never count toward the width. A window cut
// short by the end of the alignment is returned truncated.
func chosenColumns(start, width int, inserts []bool, includeInserts bool) []int {
	var chosen []int
	matches := 0
	for i := start; i < len(inserts) && matches < width; i++ {
		if inserts[i] {
			if includeInserts {
				chosen = append(chosen, i)
			}
			continue
		}
		chosen = append(chosen, i)
		matches++
	}
	return chosen
}

// WindowColumns maps a WindowSpec onto an alignment, returning the absolute
// column indices the window spans. An anchor past the end of the alignment
// yields an empty span, not an error.
func WindowColumns(alignment []seqio.AlignedProteinSequence, spec WindowSpec) []int {
	inserts := insertColumns(alignment)
	start, ok := anchorToAlignmentPosition(spec.AnchorPosition, inserts)
	if !ok {
		return nil
	}
	return chosenColumns(start, spec.Width, inserts, spec.IncludeInserts)
}
