package ingest

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"booructl/internal/booru"
)

func existingPost(version int64) *booru.Post {
	return &booru.Post{
		ID:      42,
		Version: &version,
		Safety:  booru.SafetySafe,
		Source:  "https://example.com/a",
		Tags: []booru.TagResource{
			{Names: []string{"a"}},
			{Names: []string{"b"}},
		},
		Relations: []booru.MicroPost{{ID: 10}},
	}
}

func TestMergeUnionsTagsWithoutDuplicates(t *testing.T) {
	draft := &Draft{Tags: []string{"b", "c"}}

	payload, err := mergeIntoExisting(existingPost(7), draft)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(payload.Tags, want) {
		t.Fatalf("tags = %v, want %v", payload.Tags, want)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	draft := &Draft{Tags: []string{"b", "c"}, Source: "https://example.com/a"}

	first, err := mergeIntoExisting(existingPost(7), draft)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	// Merging the same draft again must not grow the sets.
	second, err := mergeIntoExisting(existingPost(7), draft)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !reflect.DeepEqual(first.Tags, second.Tags) {
		t.Fatalf("tags differ across identical merges: %v vs %v", first.Tags, second.Tags)
	}
	if first.Source != second.Source {
		t.Fatalf("source differs across identical merges: %q vs %q", first.Source, second.Source)
	}
}

func TestMergeSourceLinesDedupe(t *testing.T) {
	base := existingPost(1)
	base.Source = "https://example.com/a\nhttps://example.com/b"
	draft := &Draft{Source: "https://example.com/b\nhttps://example.com/c"}

	payload, err := mergeIntoExisting(base, draft)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	lines := strings.Split(payload.Source, "\n")
	if len(lines) != 3 {
		t.Fatalf("source lines = %v, want 3 unique lines", lines)
	}
}

func TestMergeEmptyUnionYieldsAbsentFields(t *testing.T) {
	version := int64(2)
	base := &booru.Post{ID: 1, Version: &version}
	draft := &Draft{}

	payload, err := mergeIntoExisting(base, draft)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if payload.Tags != nil {
		t.Fatalf("tags = %v, want absent (nil)", payload.Tags)
	}
	if payload.Source != "" {
		t.Fatalf("source = %q, want absent", payload.Source)
	}
	if payload.Relations != nil {
		t.Fatalf("relations = %v, want absent", payload.Relations)
	}
}

func TestMergeSafetyPrecedence(t *testing.T) {
	version := int64(1)

	// Local draft wins when present.
	base := &booru.Post{ID: 1, Version: &version, Safety: booru.SafetySafe}
	payload, err := mergeIntoExisting(base, &Draft{Safety: booru.SafetySketchy})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if payload.Safety != booru.SafetySketchy {
		t.Fatalf("safety = %q, want local draft to win", payload.Safety)
	}

	// Remote wins when local is unset.
	payload, err = mergeIntoExisting(base, &Draft{})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if payload.Safety != booru.SafetySafe {
		t.Fatalf("safety = %q, want remote value", payload.Safety)
	}

	// Default when neither side set one.
	bare := &booru.Post{ID: 1, Version: &version}
	payload, err = mergeIntoExisting(bare, &Draft{})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if payload.Safety != booru.SafetyUnsafe {
		t.Fatalf("safety = %q, want unsafe default", payload.Safety)
	}
}

func TestMergeUnionsRelations(t *testing.T) {
	draft := &Draft{Relations: []booru.PostID{10, 11}}

	payload, err := mergeIntoExisting(existingPost(3), draft)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := []booru.PostID{10, 11}
	if !reflect.DeepEqual(payload.Relations, want) {
		t.Fatalf("relations = %v, want %v", payload.Relations, want)
	}
}

func TestMergeClearsContentAndForcesAttribution(t *testing.T) {
	payload, err := mergeIntoExisting(existingPost(3), &Draft{ContentToken: "tok-1"})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if payload.ContentToken != "" {
		t.Fatal("content token must be cleared on reconciliation updates")
	}
	if payload.Anonymous == nil || *payload.Anonymous {
		t.Fatal("anonymous must be forced false")
	}
	if payload.Version == nil || *payload.Version != 3 {
		t.Fatalf("version = %v, want 3", payload.Version)
	}
}

func TestMergeMissingVersionIsFatal(t *testing.T) {
	base := &booru.Post{ID: 9}
	_, err := mergeIntoExisting(base, &Draft{})
	if !errors.Is(err, ErrMissingVersion) {
		t.Fatalf("expected ErrMissingVersion, got %v", err)
	}
}
