package pipeline

import (
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/layeredcontracts/internal/substrate"
)

// applyResolver runs resolver over doc, either sequentially or, when
// parallel is true, concurrently across lines. Per-line results are
// collected into a slice indexed by line number and flattened back into
// line order before being written, so the resulting attribute insertion
// order is identical either way (spec.md §5's determinism requirement:
// "the set and order of emitted attributes is byte-identical").
func applyResolver(doc *substrate.Document, resolver substrate.Resolver, parallel bool) *substrate.Document {
	if !parallel || doc.LineCount() < 2 {
		return doc.Apply(resolver)
	}

	perLine := make([][]substrate.Assignment, doc.LineCount())
	var g errgroup.Group
	for i := 0; i < doc.LineCount(); i++ {
		i := i
		g.Go(func() error {
			perLine[i] = resolver.Resolve(doc, doc.Select(i))
			return nil
		})
	}
	_ = g.Wait() // Resolve never returns an error; every resolver is a pure function over tokens.

	var all []substrate.Assignment
	for _, a := range perLine {
		all = append(all, a...)
	}
	return doc.ApplyAssignments(resolver.AttributeType(), all)
}
