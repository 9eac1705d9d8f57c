package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestParseMergePairs(t *testing.T) {
	input := "5 9\n\n12\t30\n"
	pairs, err := ParseMergePairs(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}
	if pairs[0].Remove != 5 || pairs[0].MergeInto != 9 {
		t.Fatalf("pair 0 = %+v, want 5 into 9", pairs[0])
	}
	if pairs[1].Remove != 12 || pairs[1].MergeInto != 30 {
		t.Fatalf("pair 1 = %+v, want 12 into 30", pairs[1])
	}
}

func TestParseMergePairsRejectsWrongFieldCount(t *testing.T) {
	for _, input := range []string{"5\n", "5 9 1\n", "1 2\n5\n"} {
		if _, err := ParseMergePairs(strings.NewReader(input)); !errors.Is(err, ErrParse) {
			t.Fatalf("input %q: err = %v, want ErrParse", input, err)
		}
	}
}

func TestParseMergePairsRejectsNonNumeric(t *testing.T) {
	if _, err := ParseMergePairs(strings.NewReader("5 abc\n")); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestParseMergePairsEmptyInput(t *testing.T) {
	pairs, err := ParseMergePairs(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("pairs = %v, want none", pairs)
	}
}
