// SPDX-License-Identifier: MIT

package playlist

import (
	"strings"
	"testing"
)

// FuzzParseM3U ensures the parser never panics and never emits a channel
// with an empty URL, whatever the input text looks like.
func FuzzParseM3U(f *testing.F) {
	f.Add("#EXTM3U\n#EXTINF:-1 tvg-logo=\"l\" group-title=\"g\",Name\nhttp://x/y.ts\n")
	f.Add("#EXTINF:,\n\nhttp://x\n#EXTGRP\n")
	f.Add("no directives at all")
	f.Add("#EXTINF:-1 broken=\"unterminated,Name\nhttp://x\n")
	f.Add("")

	f.Fuzz(func(t *testing.T, text string) {
		for _, ch := range ParseM3U(text, "IPTV") {
			if strings.TrimSpace(ch.URL) == "" {
				t.Fatalf("parser emitted channel with empty URL: %+v", ch)
			}
			if ch.Name == "" {
				t.Fatalf("parser emitted channel with empty name: %+v", ch)
			}
		}
	})
}

// FuzzParseBulk mirrors FuzzParseM3U for the bulk-line format.
func FuzzParseBulk(f *testing.F) {
	f.Add("A|http://x|G|L\nB,http://y\nhttp://z\n")
	f.Add("|||\n,,,\n#c\n")
	f.Add("名称|http://x/直播.m3u8")

	f.Fuzz(func(t *testing.T, text string) {
		rows := ParseBulk(text, "IPTV")
		out := BuildM3U(rows)
		if !strings.HasPrefix(out, "#EXTM3U") {
			t.Fatalf("writer output missing header: %q", out[:min(40, len(out))])
		}
		if strings.Count(out, "#EXTINF:") != len(rows) {
			t.Fatalf("expected %d EXTINF lines, got %d", len(rows), strings.Count(out, "#EXTINF:"))
		}
	})
}
