// SPDX-License-Identifier: MIT

package playlist

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	quotedAttrRe   = regexp.MustCompile(`([A-Za-z0-9_-]+)\s*=\s*"([^"]*)"`)
	unquotedAttrRe = regexp.MustCompile(`([A-Za-z0-9_-]+)\s*=\s*([^"\s]+)`)
)

// ParseM3U parses M3U/M3U8 text. #EXTINF and #EXTGRP directives set pending
// name/logo/group state that is attached to the next URL line and reset
// afterward; other # lines are ignored. Blank lines do not reset pending
// state. Channels missing a name get one guessed from the URL, channels
// missing a group get defaultGroup.
func ParseM3U(text, defaultGroup string) []Channel {
	var out []Channel
	idx := 1
	var curName, curLogo, curGroup string

	for _, raw := range strings.Split(text, "\n") {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		upper := strings.ToUpper(s)
		switch {
		case strings.HasPrefix(upper, "#EXTINF"):
			curName, curLogo, curGroup = parseEXTINF(s)
		case strings.HasPrefix(upper, "#EXTGRP"):
			if _, grp, ok := strings.Cut(s, ":"); ok {
				if grp = strings.TrimSpace(grp); grp != "" {
					curGroup = grp
				}
			}
		case strings.HasPrefix(s, "#"):
			// comment or unsupported directive
		default:
			ch := Channel{
				Name:  curName,
				URL:   s,
				Group: curGroup,
				Logo:  curLogo,
			}
			if ch.Name == "" {
				ch.Name = GuessName(s, idx)
			}
			if ch.Group == "" {
				ch.Group = defaultGroup
			}
			out = append(out, ch)
			idx++
			curName, curLogo, curGroup = "", "", ""
		}
	}
	return out
}

// parseEXTINF extracts the pending name/logo/group from a #EXTINF line.
func parseEXTINF(line string) (name, logo, group string) {
	rest := ""
	if len(line) > len("#EXTINF:") {
		rest = strings.TrimSpace(line[len("#EXTINF:"):])
	}
	attrPart, namePart, _ := strings.Cut(rest, ",")
	attrPart = strings.TrimSpace(attrPart)

	// Drop the legacy duration field ("-1", "0", ...) ahead of the attributes.
	if attrPart != "" {
		first, remainder, _ := strings.Cut(attrPart, " ")
		if isInteger(first) {
			attrPart = strings.TrimSpace(remainder)
		}
	}

	attrs := parseAttrs(attrPart)
	name = strings.TrimSpace(namePart)
	if name == "" {
		name = strings.TrimSpace(firstOf(attrs, "tvg-name", "tvg-id"))
	}
	logo = strings.TrimSpace(firstOf(attrs, "tvg-logo", "logo"))
	group = strings.TrimSpace(firstOf(attrs, "group-title", "group"))
	return name, logo, group
}

// parseAttrs parses key="value" pairs, preferring quoted values; unquoted
// key=value pairs only fill keys the quoted pass did not set. Keys are
// case-insensitive.
func parseAttrs(attrText string) map[string]string {
	attrs := map[string]string{}
	if attrText == "" {
		return attrs
	}
	for _, m := range quotedAttrRe.FindAllStringSubmatch(attrText, -1) {
		attrs[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}
	for _, m := range unquotedAttrRe.FindAllStringSubmatch(attrText, -1) {
		key := strings.ToLower(m[1])
		if _, ok := attrs[key]; !ok {
			attrs[key] = strings.TrimSpace(m[2])
		}
	}
	return attrs
}

func firstOf(attrs map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := attrs[k]; v != "" {
			return v
		}
	}
	return ""
}

// isInteger reports whether tok is a (possibly negative) integer such as the
// legacy EXTINF duration field.
func isInteger(tok string) bool {
	tok = strings.TrimLeft(tok, "-")
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// BuildM3U renders channels as M3U text: UTF-8, line-feed terminated, one
// blank line between entries and a single trailing newline. Channels with an
// empty URL are skipped entirely; channels with an empty name get one
// guessed from the URL. The guess ordinal is fixed at 1, the writer does not
// track a position.
func BuildM3U(channels []Channel) string {
	lines := []string{"#EXTM3U"}
	for _, ch := range channels {
		name := strings.TrimSpace(ch.Name)
		url := strings.TrimSpace(ch.URL)
		group := strings.TrimSpace(ch.Group)
		logo := strings.TrimSpace(ch.Logo)
		if url == "" {
			continue
		}
		if name == "" {
			name = GuessName(url, 1)
		}

		var attrs []string
		if logo != "" {
			attrs = append(attrs, `tvg-logo="`+escAttr(logo)+`"`)
		}
		if group != "" {
			attrs = append(attrs, `group-title="`+escAttr(group)+`"`)
		}
		attrStr := ""
		if len(attrs) > 0 {
			attrStr = " " + strings.Join(attrs, " ")
		}

		lines = append(lines, fmt.Sprintf("#EXTINF:-1%s,%s", attrStr, name), url, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n") + "\n"
}

// WriteM3U writes the rendered playlist to w.
func WriteM3U(w io.Writer, channels []Channel) error {
	_, err := io.Copy(w, bytes.NewBufferString(BuildM3U(channels)))
	return err
}

// escAttr escapes an EXTINF attribute value: backslash and double-quote are
// backslash-escaped, surrounding whitespace is trimmed.
func escAttr(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return strings.TrimSpace(v)
}
