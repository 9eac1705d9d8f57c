package ingest

import "booructl/internal/booru"

// SimilarityThreshold is the minimum reverse-search distance at which a
// similar match becomes a relation link. The boundary is inclusive.
const SimilarityThreshold = 0.75

// Decision is the duplicate resolver's verdict for one file.
type Decision struct {
	// Exact is non-nil when the server reported a byte-identical post; the
	// pipeline must then update that post in place and never create.
	Exact *booru.Post
	// Relations are the similar-match post IDs at or above the threshold.
	Relations []booru.PostID
}

// Update reports whether the update-in-place path applies.
func (d Decision) Update() bool {
	return d.Exact != nil
}

// Resolve combines server duplicate-detection results into a decision.
// Pure and deterministic: identical inputs always produce the same verdict.
func Resolve(result *booru.ReverseSearchResult) Decision {
	var decision Decision
	if result == nil {
		return decision
	}
	decision.Exact = result.ExactPost
	for _, similar := range result.SimilarPosts {
		if similar.Distance >= SimilarityThreshold {
			decision.Relations = append(decision.Relations, similar.Post.ID)
		}
	}
	return decision
}
