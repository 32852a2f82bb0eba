package service

import "strings"

const maxTagsPerPhoto = 20

// ParseTags normalizes a raw comma-separated tag string: segments are
// trimmed, a leading '#' is stripped, values are lowercased, empties dropped,
// duplicates removed (first occurrence wins), and the result is capped at 20
// tags.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimLeft(strings.TrimSpace(part), "#")
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == maxTagsPerPhoto {
			break
		}
	}
	return tags
}
