package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"booructl/internal/booru"
	"booructl/internal/logging"
)

// ErrMalformed marks a sidecar descriptor that failed to parse. Fatal for
// the owning file; never retried.
var ErrMalformed = errors.New("malformed sidecar")

var lowerCaser = cases.Lower(language.Und)

// Metadata is the normalized local metadata for one media file, prior to
// duplicate resolution and merging.
type Metadata struct {
	// Tags is nil when no sidecar supplied tags. Never contains internal
	// whitespace on the textual path.
	Tags []string
	// Safety defaults to unsafe when no sidecar supplied a rating.
	Safety booru.Safety
	// Source is newline-separated unique source lines, empty when absent.
	Source string
	// Creator is the extracted creator/artist name, empty when absent.
	Creator string
}

// TxtPath returns the tag-list sidecar path for a media file. The suffix is
// appended to the full filename: img.png pairs with img.png.txt.
func TxtPath(mediaPath string) string {
	return mediaPath + ".txt"
}

// JSONPath returns the descriptor sidecar path for a media file. As with
// TxtPath the suffix appends to the full filename: img.png.json.
func JSONPath(mediaPath string) string {
	return mediaPath + ".json"
}

// Load locates and parses the sidecars next to mediaPath. A missing sidecar
// is not an error; a present but malformed descriptor is fatal for the file.
func Load(mediaPath string, logger *slog.Logger) (*Metadata, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	meta := &Metadata{}

	if content, err := os.ReadFile(TxtPath(mediaPath)); err == nil {
		meta.Tags = ParseTagList(string(content))
		logger.Debug("found tag sidecar", "path", TxtPath(mediaPath), "tags", len(meta.Tags))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read tag sidecar: %w", err)
	}

	if content, err := os.ReadFile(JSONPath(mediaPath)); err == nil {
		if err := applyDescriptor(meta, content, logger); err != nil {
			return nil, err
		}
		logger.Debug("found descriptor sidecar", "path", JSONPath(mediaPath))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read descriptor sidecar: %w", err)
	}

	if meta.Safety == "" {
		meta.Safety = booru.SafetyUnsafe
	}
	return meta, nil
}

// ParseTagList splits a .txt sidecar into tags: one per line, trimmed, with
// internal spaces replaced by underscores. Blank lines are dropped.
func ParseTagList(content string) []string {
	var tags []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		tag := strings.TrimSpace(line)
		if tag == "" {
			continue
		}
		tags = append(tags, strings.ReplaceAll(tag, " ", "_"))
	}
	return tags
}

type descriptor struct {
	Source   string          `json:"source"`
	URL      string          `json:"url"`
	Category string          `json:"category"`
	Tags     json.RawMessage `json:"tags"`
	Username string          `json:"username"`
	Safety   string          `json:"safety"`
	Rating   string          `json:"rating"`
}

// applyDescriptor folds a JSON descriptor into meta. Descriptor tags replace
// any tags the .txt sidecar produced, even when the descriptor carries none;
// the creator tag is appended afterwards.
func applyDescriptor(meta *Metadata, content []byte, logger *slog.Logger) error {
	var desc descriptor
	if err := json.Unmarshal(content, &desc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	meta.Source = mergeSourceLines(desc.Source, desc.URL)

	site := siteFromCategory(desc.Category)
	tags := parseSiteTags(desc.Tags, site)
	if tags == nil {
		logger.Debug("no tags in descriptor", "site", site.String())
	}
	meta.Tags = tags

	if username := strings.TrimSpace(desc.Username); username != "" {
		meta.Creator = username
		meta.Tags = append(meta.Tags, "creator:"+username)
	}

	rating := desc.Safety
	if rating == "" {
		rating = desc.Rating
	}
	if rating != "" {
		if safety, ok := parseSafety(rating); ok {
			meta.Safety = safety
		} else {
			logger.Warn("unrecognized safety rating", "value", rating)
		}
	}
	return nil
}

func parseSiteTags(raw json.RawMessage, site Site) []string {
	if len(raw) == 0 {
		return nil
	}
	switch site.tagFormat() {
	case tagFormatArray:
		var values []string
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil
		}
		tags := make([]string, 0, len(values))
		for _, value := range values {
			tags = append(tags, strings.ReplaceAll(lowerCaser.String(value), " ", "_"))
		}
		return tags
	case tagFormatSpaceDelimited:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil
		}
		return strings.Fields(value)
	default:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil
		}
		var tags []string
		for _, token := range strings.Split(value, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			tags = append(tags, token)
		}
		return tags
	}
}

func parseSafety(value string) (booru.Safety, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "safe", "s":
		return booru.SafetySafe, true
	case "sketchy", "questionable", "q":
		return booru.SafetySketchy, true
	case "unsafe", "explicit", "e":
		return booru.SafetyUnsafe, true
	default:
		return "", false
	}
}

func mergeSourceLines(values ...string) string {
	seen := make(map[string]struct{})
	var lines []string
	for _, value := range values {
		for _, line := range strings.Split(value, "\n") {
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
