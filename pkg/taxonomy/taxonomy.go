// Package taxonomy reads the per-read taxonomy lookups produced by the
// annotation stage: either a tab-delimited read→taxonomy file, or a
// similarity-search hit table reduced to the best hit per read.
package taxonomy

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/DininduSenanayake/singlem/pkg/otu"
)

// ReadTaxonomyFile parses a two-column tab-delimited file mapping read name
// to a taxonomy string. Read names are un-ORF-decorated so they join
// directly against SequenceWindow names.
func ReadTaxonomyFile(r io.Reader) (map[string]string, error) {
	taxonomies := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	line_number := 0
	for scanner.Scan() {
		line_number++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("taxonomy file line %d: expected 2 tab-separated fields", line_number)
		}
		taxonomies[otu.UnOrfmName(fields[0])] = strings.TrimSpace(fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	return taxonomies, nil
}

// ReadBestHitTable parses a blast6-style tab-delimited hit table, keeping
// the first hit seen for each read. The second column is taken as the
// taxonomy string for that read.
func ReadBestHitTable(r io.Reader) (map[string]string, error) {
	taxonomies := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	line_number := 0
	for scanner.Scan() {
		line_number++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("hit table line %d: expected at least 2 tab-separated fields", line_number)
		}
		name := otu.UnOrfmName(fields[0])
		if _, ok := taxonomies[name]; !ok {
			taxonomies[name] = fields[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hit table: %w", err)
	}

	return taxonomies, nil
}
