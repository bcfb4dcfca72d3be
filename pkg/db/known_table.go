package db

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// KnownOtuTable is an in-memory known-OTU store loaded from previously
// generated OTU tables (TSV with a header line naming at least "sequence"
// and "taxonomy" columns).
type KnownOtuTable struct {
	taxonomies map[string]string
}

// NewKnownOtuTable returns an empty store.
func NewKnownOtuTable() *KnownOtuTable {
	return &KnownOtuTable{taxonomies: make(map[string]string)}
}

// ParseOtuTable loads one OTU table. When the same sequence appears more
// than once, the first taxonomy read is kept.
func (k *KnownOtuTable) ParseOtuTable(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	sequence_col := -1
	taxonomy_col := -1
	line_number := 0
	for scanner.Scan() {
		line_number++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		if sequence_col < 0 {
			// Header line
			for i, name := range fields {
				switch name {
				case "sequence":
					sequence_col = i
				case "taxonomy":
					taxonomy_col = i
				}
			}
			if sequence_col < 0 || taxonomy_col < 0 {
				return fmt.Errorf("known OTU table header is missing sequence or taxonomy column")
			}
			continue
		}

		if len(fields) <= sequence_col || len(fields) <= taxonomy_col {
			return fmt.Errorf("known OTU table line %d has too few columns", line_number)
		}
		sequence := fields[sequence_col]
		if _, ok := k.taxonomies[sequence]; !ok {
			k.taxonomies[sequence] = fields[taxonomy_col]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read known OTU table: %w", err)
	}

	return nil
}

// Len reports the number of known sequences.
func (k *KnownOtuTable) Len() int {
	return len(k.taxonomies)
}

// Taxonomy implements KnownTaxonomySource.
func (k *KnownOtuTable) Taxonomy(_ context.Context, sequence string) (string, bool, error) {
	tax, ok := k.taxonomies[sequence]
	return tax, ok, nil
}
