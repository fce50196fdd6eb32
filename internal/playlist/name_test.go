// SPDX-License-Identifier: MIT

package playlist

import "testing"

func TestGuessName(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		ordinal int
		want    string
	}{
		{"strips media extension", "http://x/cctv1.m3u8", 1, "cctv1"},
		{"extension match is case insensitive", "http://x/NEWS.TS", 1, "NEWS"},
		{"keeps unknown extension as junk-split words", "http://x/show.xyz", 1, "show xyz"},
		{"last non-empty path segment wins", "http://x/live/hd/sport.mp4/", 1, "sport"},
		{"cjk characters survive", "http://x/央视综合.m3u8", 1, "央视综合"},
		{"junk runs collapse to single space", "http://x/a%20b@@c.ts", 1, "a 20b c"},
		{"hostname fallback is lowercased", "http://CDN.Example.COM/", 7, "cdn.example.com"},
		{"ordinal fallback is zero padded", "foo://", 7, "Channel 007"},
		{"unparseable url falls back to ordinal", "http://bad url\x7f", 12, "Channel 012"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := GuessName(tc.url, tc.ordinal); got != tc.want {
				t.Fatalf("GuessName(%q, %d) = %q, want %q", tc.url, tc.ordinal, got, tc.want)
			}
		})
	}
}
