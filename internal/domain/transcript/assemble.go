// Package transcript assembles per-segment fragments into one document.
package transcript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/forPelevin/scribe/internal/types"
)

// Assemble orders fragments by their ordinal index and joins them into a
// single transcript. Fragments may arrive in any order; assembly sorts
// rather than trusting the caller's processing order. The index set must be
// dense (0..n-1): a gap means a segment was lost and the transcript would be
// silently corrupt, so that is an error here.
func Assemble(fragments []types.Fragment) (types.Transcript, error) {
	if len(fragments) == 0 {
		return types.Transcript{}, fmt.Errorf("no fragments to assemble")
	}

	ordered := make([]types.Fragment, len(fragments))
	copy(ordered, fragments)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	for i, fr := range ordered {
		if fr.Index != i {
			return types.Transcript{}, fmt.Errorf("fragment set is not contiguous: missing index %d", i)
		}
	}

	parts := make([]string, 0, len(ordered))
	for _, fr := range ordered {
		parts = append(parts, strings.TrimSpace(fr.Text))
	}

	// Newline join keeps words from visually merging across a cut point.
	return types.Transcript{
		Fragments: ordered,
		Text:      strings.Join(parts, "\n"),
	}, nil
}
