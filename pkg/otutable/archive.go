package otutable

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ArchiveVersion tags the archive document format.
const ArchiveVersion = 1

// Archive is the machine-oriented form of an OTU table: all fields, plus
// format version and a run identifier so downstream merges can tell
// independent runs apart.
type Archive struct {
	Version int             `json:"version"`
	RunID   string          `json:"run_id"`
	Fields  []string        `json:"fields"`
	OTUs    [][]interface{} `json:"otus"`
}

// NewArchive builds an archive document from a table, minting a fresh run
// identifier.
func NewArchive(t *Table) *Archive {
	a := &Archive{
		Version: ArchiveVersion,
		RunID:   uuid.New().String(),
		Fields:  ExtraFields,
	}
	for _, row := range t.Rows {
		a.OTUs = append(a.OTUs, []interface{}{
			row.Gene,
			row.Sample,
			row.Sequence,
			row.Count,
			row.Coverage,
			row.Taxonomy,
			row.ReadNames,
			row.AlignedLengths,
			row.KnownTaxonomy,
		})
	}
	return a
}

// Write serializes the archive as JSON.
func (a *Archive) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(a); err != nil {
		return fmt.Errorf("failed to write archive OTU table: %w", err)
	}
	return nil
}
