// Collapse per-read windows into OTUs and resolve one taxonomy per OTU.

package otu

import "strings"

// TaxonomyDelimiter separates rank labels in a taxonomy string.
const TaxonomyDelimiter = "; "

// AggregatedOtu is one distinct window sequence within a sample / marker
// gene pair. ReadNames preserves encounter order; the first name is the
// group's representative for first-hit taxonomy and placement rewriting.
type AggregatedOtu struct {
	Sequence       string
	Count          int
	Coverage       float64
	ReadNames      []string
	AlignedLengths []int
	Taxonomy       string
}

type collectedInfo struct {
	count           int
	coverage        float64
	taxonomies      []string
	names           []string
	aligned_lengths []int
}

// Aggregate groups windows by their exact aligned sequence (gap characters
// included) and merges each group into one AggregatedOtu. Taxonomies maps
// read name to a rank path; missing reads count as unannotated, not errors.
// With useFirstTaxonomy the first-encountered read's annotation is used
// verbatim, otherwise a per-rank consensus is taken. Output order is the
// order in which each distinct sequence was first seen.
func Aggregate(windows []SequenceWindow, taxonomies map[string]string, useFirstTaxonomy bool) []AggregatedOtu {
	collected := make(map[string]*collectedInfo)
	var order []string

	for _, w := range windows {
		info, ok := collected[w.AlignedSequence]
		if !ok {
			info = &collectedInfo{}
			collected[w.AlignedSequence] = info
			order = append(order, w.AlignedSequence)
		}
		info.count++
		info.coverage += w.Coverage
		info.taxonomies = append(info.taxonomies, taxonomies[w.Name])
		info.names = append(info.names, w.Name)
		info.aligned_lengths = append(info.aligned_lengths, w.AlignedLength)
	}

	otus := make([]AggregatedOtu, 0, len(order))
	for _, seq := range order {
		info := collected[seq]
		var tax string
		if useFirstTaxonomy {
			tax = info.taxonomies[0]
		} else {
			tax = consensusTaxonomy(info.taxonomies)
		}
		otus = append(otus, AggregatedOtu{
			Sequence:       seq,
			Count:          info.count,
			Coverage:       info.coverage,
			ReadNames:      info.names,
			AlignedLengths: info.aligned_lengths,
			Taxonomy:       tax,
		})
	}

	return otus
}

// rankTally counts label occurrences at one rank depth, remembering
// first-seen order so that exact ties break deterministically.
type rankTally struct {
	labels []string
	counts map[string]int
	total  int
}

// consensusTaxonomy takes a per-rank plurality vote over the given taxonomy
// strings. A rank's winning label is kept while its share of the reads that
// carry a label at that depth is at least one half; the first failing rank
// truncates the result there. Unannotated reads (empty strings) do not
// vote. Exact ties keep the first-seen label.
func consensusTaxonomy(taxonomies []string) string {
	var tallies []*rankTally
	for _, tax_string := range taxonomies {
		if strings.TrimSpace(tax_string) == "" {
			continue
		}
		for i, label := range strings.Split(tax_string, ";") {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			for i >= len(tallies) {
				tallies = append(tallies, &rankTally{counts: make(map[string]int)})
			}
			t := tallies[i]
			if _, seen := t.counts[label]; !seen {
				t.labels = append(t.labels, label)
			}
			t.counts[label]++
			t.total++
		}
	}

	var consensus []string
	for _, t := range tallies {
		if t.total == 0 {
			// Every read had an empty label at this rank; there is nothing
			// to vote on, so deeper ranks are dropped.
			break
		}
		best := ""
		best_count := 0
		for _, label := range t.labels {
			if t.counts[label] > best_count {
				best = label
				best_count = t.counts[label]
			}
		}
		if float64(best_count)/float64(t.total) < 0.5 {
			break
		}
		consensus = append(consensus, best)
	}

	return strings.Join(consensus, TaxonomyDelimiter)
}
