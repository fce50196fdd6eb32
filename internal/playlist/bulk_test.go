// SPDX-License-Identifier: MIT

package playlist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBulkTable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Channel
	}{
		{
			name:  "pipe separated full record",
			input: "A|http://x/y.ts|G|http://logo",
			want:  []Channel{{Name: "A", URL: "http://x/y.ts", Group: "G", Logo: "http://logo"}},
		},
		{
			name:  "url only guesses name and default group",
			input: "http://x/y.ts",
			want:  []Channel{{Name: "y", URL: "http://x/y.ts", Group: "IPTV"}},
		},
		{
			name:  "comma separated without logo",
			input: "CNN,http://x/cnn.m3u8,News",
			want:  []Channel{{Name: "CNN", URL: "http://x/cnn.m3u8", Group: "News"}},
		},
		{
			name:  "empty fields dropped anywhere in the split",
			input: "A||http://x/a.ts",
			want:  []Channel{{Name: "A", URL: "http://x/a.ts", Group: "IPTV"}},
		},
		{
			name:  "blank lines and comments yield nothing",
			input: "\n  \n# comment\n#another\n",
			want:  nil,
		},
		{
			name:  "separators only yields nothing",
			input: "|||",
			want:  nil,
		},
		{
			name:  "missing trailing group falls back to default",
			input: "B,http://x/b.ts",
			want:  []Channel{{Name: "B", URL: "http://x/b.ts", Group: "IPTV"}},
		},
		{
			// Empty fields are dropped before positional mapping, so an
			// empty group slot shifts the logo value into the group.
			name:  "empty group field shifts later fields",
			input: "B,http://x/b.ts,,http://l/b.png",
			want:  []Channel{{Name: "B", URL: "http://x/b.ts", Group: "http://l/b.png"}},
		},
		{
			name:  "ordinal only advances for emitted records",
			input: "# skipped\nhttp://host/\nhttp://host2/",
			want: []Channel{
				{Name: "host", URL: "http://host/", Group: "IPTV"},
				{Name: "host2", URL: "http://host2/", Group: "IPTV"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseBulk(tc.input, "IPTV")
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ParseBulk mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseBulkOrdinalFallback(t *testing.T) {
	// Lines whose URL has neither path leaf nor hostname fall back to the
	// running ordinal, which counts emitted records only.
	got := ParseBulk("#c\nfoo://\nbar://", "IPTV")
	if len(got) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(got))
	}
	if got[0].Name != "Channel 001" || got[1].Name != "Channel 002" {
		t.Fatalf("unexpected guessed names: %q, %q", got[0].Name, got[1].Name)
	}
}
