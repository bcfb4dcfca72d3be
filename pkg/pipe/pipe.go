// Package pipe composes the core stages for one (sample, marker gene)
// pair: window extraction, aggregation, known-taxonomy override and
// optional placement rewriting. Each call is independent; callers may run
// pairs in parallel.
package pipe

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DininduSenanayake/singlem/logger"
	"github.com/DininduSenanayake/singlem/pkg/db"
	"github.com/DininduSenanayake/singlem/pkg/jplace"
	"github.com/DininduSenanayake/singlem/pkg/otu"
	"github.com/DininduSenanayake/singlem/pkg/otutable"
	"github.com/DininduSenanayake/singlem/pkg/seqio"
)

// Options fixes all tunables of one pipeline invocation explicitly; no
// process-wide configuration reaches the core.
type Options struct {
	Gene             string
	Sample           string
	Window           otu.WindowSpec
	UseFirstTaxonomy bool
	Known            db.KnownTaxonomySource // optional
}

// Result carries the outputs for one (sample, gene) pair.
type Result struct {
	Rows []otutable.Row
	OTUs []otu.AggregatedOtu
}

// Process turns an aligned protein alignment, its nucleotide reads and a
// read→taxonomy lookup into OTU table rows. Zero extractable windows is not
// an error and yields an empty result.
func Process(ctx context.Context, alignment []seqio.AlignedProteinSequence, nucleotides []seqio.NucleotideRecord, taxonomies map[string]string, opts Options) (*Result, error) {
	if len(alignment) == 0 || len(nucleotides) == 0 {
		logger.Debug("no aligned reads for this sample and gene",
			zap.String("sample", opts.Sample), zap.String("gene", opts.Gene))
		return &Result{}, nil
	}

	windows, err := otu.FindWindowedSequences(alignment, nucleotides, opts.Window)
	if err != nil {
		return nil, fmt.Errorf("sample %s gene %s: %w", opts.Sample, opts.Gene, err)
	}
	if len(windows) == 0 {
		logger.Debug("no windowed sequences found",
			zap.String("sample", opts.Sample), zap.String("gene", opts.Gene))
		return &Result{}, nil
	}
	logger.Debug("extracted windowed sequences",
		zap.Int("sequences", len(windows)),
		zap.String("sample", opts.Sample), zap.String("gene", opts.Gene))

	otus := otu.Aggregate(windows, taxonomies, opts.UseFirstTaxonomy)

	result := &Result{OTUs: otus}
	for _, o := range otus {
		row := otutable.Row{
			Gene:           opts.Gene,
			Sample:         opts.Sample,
			Sequence:       o.Sequence,
			Count:          o.Count,
			Coverage:       o.Coverage,
			Taxonomy:       o.Taxonomy,
			ReadNames:      o.ReadNames,
			AlignedLengths: o.AlignedLengths,
		}
		if opts.Known != nil {
			known_tax, ok, err := opts.Known.Taxonomy(ctx, o.Sequence)
			if err != nil {
				return nil, fmt.Errorf("known taxonomy lookup: %w", err)
			}
			if ok {
				row.Taxonomy = known_tax
				row.KnownTaxonomy = true
			}
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// RewritePlacements re-keys a placement document by the OTUs of a Result.
func (r *Result) RewritePlacements(doc *jplace.Document) (*jplace.Document, error) {
	return jplace.Rewrite(doc, r.OTUs)
}
