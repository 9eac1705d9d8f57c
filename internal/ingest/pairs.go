package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"booructl/internal/booru"
)

// MergePair names one version-checked post merge: Remove is deleted and its
// content folded into MergeInto.
type MergePair struct {
	Remove    booru.PostID
	MergeInto booru.PostID
}

// ParseMergePairs reads a plain-text pair list: one "<removeId> <mergeIntoId>"
// per line, exactly two whitespace-separated integers. Any malformed line
// fails the entire read with ErrParse.
func ParseMergePairs(r io.Reader) ([]MergePair, error) {
	var pairs []MergePair
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d must contain exactly two numbers, got %d", ErrParse, lineNo, len(fields))
		}
		remove, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid post id %q", ErrParse, lineNo, fields[0])
		}
		mergeInto, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid post id %q", ErrParse, lineNo, fields[1])
		}
		pairs = append(pairs, MergePair{
			Remove:    booru.PostID(remove),
			MergeInto: booru.PostID(mergeInto),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read merge pairs: %w", err)
	}
	return pairs, nil
}
