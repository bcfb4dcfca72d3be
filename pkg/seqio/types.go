// Sequence records shared by the window finder and the pipeline runner.

package seqio

// NucleotideRecord is one raw nucleotide read, as produced by the upstream
// search tool. Name is the first whitespace-delimited token of the FASTA
// header and may still carry an ORF/frame decoration.
type NucleotideRecord struct {
	Name string
	Seq  string
}

// AlignedProteinSequence is one row of a gapped protein alignment in A2M
// convention: uppercase letters are match-state residues, '-' is a deletion
// in a match column, lowercase letters are insert-state residues and '.' is
// the absence of an insert.
type AlignedProteinSequence struct {
	Name string
	Seq  string
}

// Length returns the number of alignment columns.
func (s AlignedProteinSequence) Length() int {
	return len(s.Seq)
}

// IsResidue reports whether an alignment cell holds an amino acid rather
// than a gap character.
func IsResidue(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// IsInsertState reports whether an alignment cell belongs to an insert
// column for its sequence ('.' or a lowercase residue).
func IsInsertState(c byte) bool {
	return c == '.' || (c >= 'a' && c <= 'z')
}
