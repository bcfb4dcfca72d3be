// Package db provides the curated known-OTU taxonomy stores. When a window
// sequence is found in one of them, its taxonomy overrides the computed
// consensus.
package db

import (
	"context"
	"errors"
)

// Defining possible error
var ErrNoKnownTaxonomy = errors.New("no known taxonomy for sequence")

// KnownTaxonomySource resolves a window sequence to a curated taxonomy.
// The boolean reports whether the sequence is known at all; an error means
// the store itself failed.
type KnownTaxonomySource interface {
	Taxonomy(ctx context.Context, sequence string) (string, bool, error)
}
