package otutable

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func exampleTable() *Table {
	t := &Table{}
	t.Append(Row{
		Gene:           "4.21.ribosomal_protein_S19_rpsS",
		Sample:         "sample1",
		Sequence:       "ATGAAACTG",
		Count:          2,
		Coverage:       1.05,
		Taxonomy:       "d__Bacteria; p__Proteobacteria",
		ReadNames:      []string{"read1", "read2"},
		AlignedLengths: []int{20, 18},
		KnownTaxonomy:  false,
	})
	return t
}

func TestTableWrite(t *testing.T) {

	var buf bytes.Buffer
	if err := exampleTable().Write(&buf, false); err != nil {
		t.Fatal(err)
	}

	expected := "gene\tsample\tsequence\tnum_hits\tcoverage\ttaxonomy\n" +
		"4.21.ribosomal_protein_S19_rpsS\tsample1\tATGAAACTG\t2\t1.05\td__Bacteria; p__Proteobacteria\n"
	if buf.String() != expected {
		t.Errorf("unexpected table output:\n%q\nwant:\n%q", buf.String(), expected)
	}
}

func TestTableWriteExtras(t *testing.T) {

	var buf bytes.Buffer
	if err := exampleTable().Write(&buf, true); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[0], "read_names\tnucleotides_aligned\ttaxonomy_by_known?") {
		t.Errorf("unexpected extras header: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "read1 read2\t20 18\tfalse") {
		t.Errorf("unexpected extras row: %q", lines[1])
	}
}

func TestArchive(t *testing.T) {

	var buf bytes.Buffer
	archive := NewArchive(exampleTable())
	if err := archive.Write(&buf); err != nil {
		t.Fatal(err)
	}

	var decoded Archive
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Version != ArchiveVersion {
		t.Errorf("unexpected archive version %d", decoded.Version)
	}
	if decoded.RunID == "" {
		t.Error("archive must carry a run id")
	}
	if len(decoded.OTUs) != 1 {
		t.Fatalf("expected 1 OTU entry, got %d", len(decoded.OTUs))
	}
	if len(decoded.Fields) != len(decoded.OTUs[0]) {
		t.Errorf("fields (%d) and OTU entry width (%d) disagree",
			len(decoded.Fields), len(decoded.OTUs[0]))
	}
}
