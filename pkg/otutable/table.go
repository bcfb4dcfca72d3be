// Package otutable holds the tabular OTU output consumed by the
// presentation layer.
package otutable

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RegularFields are the columns of the default OTU table output.
var RegularFields = []string{"gene", "sample", "sequence", "num_hits", "coverage", "taxonomy"}

// ExtraFields extends RegularFields with the per-read detail columns.
var ExtraFields = append(append([]string{}, RegularFields...),
	"read_names", "nucleotides_aligned", "taxonomy_by_known?")

// Row is one OTU table row: one distinct window sequence in one sample for
// one marker gene.
type Row struct {
	Gene           string
	Sample         string
	Sequence       string
	Count          int
	Coverage       float64
	Taxonomy       string
	ReadNames      []string
	AlignedLengths []int
	KnownTaxonomy  bool
}

// Table accumulates rows across samples and marker genes.
type Table struct {
	Rows []Row
}

// Append adds rows to the table.
func (t *Table) Append(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Write serializes the table as TSV with a header line. With extras the
// per-read detail columns are included.
func (t *Table) Write(w io.Writer, extras bool) error {
	bw := bufio.NewWriter(w)

	fields := RegularFields
	if extras {
		fields = ExtraFields
	}
	if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
		return err
	}

	for _, row := range t.Rows {
		cells := []string{
			row.Gene,
			row.Sample,
			row.Sequence,
			strconv.Itoa(row.Count),
			FormatCoverage(row.Coverage),
			row.Taxonomy,
		}
		if extras {
			cells = append(cells,
				strings.Join(row.ReadNames, " "),
				joinInts(row.AlignedLengths),
				strconv.FormatBool(row.KnownTaxonomy),
			)
		}
		if _, err := bw.WriteString(strings.Join(cells, "\t") + "\n"); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write OTU table: %w", err)
	}
	return nil
}

// FormatCoverage renders a summed coverage value for the table.
func FormatCoverage(coverage float64) string {
	return strconv.FormatFloat(coverage, 'f', 2, 64)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
