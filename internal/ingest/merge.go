package ingest

import (
	"fmt"
	"strings"

	"booructl/internal/booru"
)

// mergeIntoExisting builds the update payload for the update-in-place path:
// a deterministic, deduplicating merge of the existing remote post (base)
// and the local draft (incoming). Notes, flags, and content fields are
// cleared by omission; the update is never anonymous.
func mergeIntoExisting(exact *booru.Post, draft *Draft) (*booru.CreateUpdatePost, error) {
	if exact.Version == nil {
		return nil, fmt.Errorf("%w: post %d", ErrMissingVersion, exact.ID)
	}

	safety := draft.Safety
	if safety == "" {
		safety = exact.Safety
	}
	if safety == "" {
		safety = booru.SafetyUnsafe
	}

	version := *exact.Version
	anonymous := false
	return &booru.CreateUpdatePost{
		Version:   &version,
		Tags:      unionStrings(exact.TagNames(), draft.Tags),
		Safety:    safety,
		Source:    unionLines(exact.Source, draft.Source),
		Relations: unionIDs(exact.RelationIDs(), draft.Relations),
		Anonymous: &anonymous,
	}, nil
}

// unionStrings merges two tag sets preserving first-seen order. An empty
// union yields nil so the field stays absent rather than empty-but-present.
func unionStrings(base, incoming []string) []string {
	seen := make(map[string]struct{}, len(base)+len(incoming))
	var merged []string
	for _, value := range append(append([]string(nil), base...), incoming...) {
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		merged = append(merged, value)
	}
	return merged
}

func unionIDs(base, incoming []booru.PostID) []booru.PostID {
	seen := make(map[booru.PostID]struct{}, len(base)+len(incoming))
	var merged []booru.PostID
	for _, id := range append(append([]booru.PostID(nil), base...), incoming...) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged
}

// unionLines merges newline-separated source texts, deduplicating lines and
// preserving first-seen order. An empty union yields the empty string.
func unionLines(base, incoming string) string {
	seen := make(map[string]struct{})
	var lines []string
	for _, text := range []string{base, incoming} {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
