package seqio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadNucleotideSequences parses FASTA records from r. Sequence lines are
// concatenated; the record name is the first whitespace-delimited token of
// the header.
func ReadNucleotideSequences(r io.Reader) ([]NucleotideRecord, error) {
	var records []NucleotideRecord
	var name string
	var seq strings.Builder
	in_record := false

	flush := func() {
		if in_record {
			records = append(records, NucleotideRecord{Name: name, Seq: seq.String()})
			seq.Reset()
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("fasta record with empty header")
			}
			name = fields[0]
			in_record = true
			continue
		}
		if !in_record {
			return nil, fmt.Errorf("fasta sequence data before any header: %q", line)
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fasta: %w", err)
	}
	flush()

	return records, nil
}

// ReadProteinAlignment parses an aligned FASTA (A2M) protein alignment from
// r. All rows must have the same number of columns.
func ReadProteinAlignment(r io.Reader) ([]AlignedProteinSequence, error) {
	records, err := ReadNucleotideSequences(r)
	if err != nil {
		return nil, err
	}

	alignment := make([]AlignedProteinSequence, 0, len(records))
	for _, rec := range records {
		if len(alignment) > 0 && len(rec.Seq) != len(alignment[0].Seq) {
			return nil, fmt.Errorf("alignment row %s has %d columns, expected %d",
				rec.Name, len(rec.Seq), len(alignment[0].Seq))
		}
		alignment = append(alignment, AlignedProteinSequence{Name: rec.Name, Seq: rec.Seq})
	}

	return alignment, nil
}
