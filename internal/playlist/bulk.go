// SPDX-License-Identifier: MIT

package playlist

import "strings"

// ParseBulk parses free-form bulk text, one candidate channel per line.
//
// Supported line formats:
//
//	name|URL|group|logo
//	name,URL,group,logo
//	URL
//
// Blank lines and lines starting with # are ignored. Empty fields are
// dropped from the split result, missing trailing fields default to
// defaultGroup and an empty logo, and a line without a URL is discarded.
func ParseBulk(text, defaultGroup string) []Channel {
	var out []Channel
	idx := 1
	for _, raw := range strings.Split(text, "\n") {
		s := strings.TrimSpace(raw)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		var parts []string
		switch {
		case strings.Contains(s, "|"):
			parts = strings.Split(s, "|")
		case strings.Contains(s, ","):
			parts = strings.Split(s, ",")
		default:
			parts = []string{s}
		}
		fields := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				fields = append(fields, p)
			}
		}

		if len(fields) == 0 {
			continue
		}

		var ch Channel
		if len(fields) == 1 {
			ch = Channel{
				Name:  GuessName(fields[0], idx),
				URL:   fields[0],
				Group: defaultGroup,
			}
		} else {
			ch = Channel{Name: fields[0]}
			if len(fields) > 1 {
				ch.URL = fields[1]
			}
			if len(fields) > 2 {
				ch.Group = fields[2]
			}
			if len(fields) > 3 {
				ch.Logo = fields[3]
			}
			if ch.Name == "" {
				ch.Name = GuessName(ch.URL, idx)
			}
			if ch.Group == "" {
				ch.Group = defaultGroup
			}
		}

		if ch.URL == "" {
			continue
		}
		out = append(out, ch)
		idx++
	}
	return out
}
