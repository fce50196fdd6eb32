// SPDX-License-Identifier: MIT

package playlist

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	mediaExtRe = regexp.MustCompile(`(?i)\.(m3u8|ts|mp4|mkv|flv|aac|mp3)$`)
	nameJunkRe = regexp.MustCompile(`[^A-Za-z0-9_\- \x{4e00}-\x{9fff}]+`)
)

// GuessName derives a display name for a channel from its stream URL: the
// last path segment with a known media extension stripped and non-name
// characters collapsed to spaces, falling back to the lowercased hostname,
// falling back to "Channel NNN" with the given 1-based ordinal.
func GuessName(rawURL string, ordinal int) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err == nil {
		path := strings.Trim(u.EscapedPath(), "/")
		if path != "" {
			segs := strings.Split(path, "/")
			leaf := segs[len(segs)-1]
			leaf = mediaExtRe.ReplaceAllString(leaf, "")
			leaf = strings.TrimSpace(nameJunkRe.ReplaceAllString(leaf, " "))
			if leaf != "" {
				return leaf
			}
		}
		if host := strings.ToLower(u.Hostname()); host != "" {
			return host
		}
	}
	return fmt.Sprintf("Channel %03d", ordinal)
}
