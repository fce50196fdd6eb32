// SPDX-License-Identifier: MIT

// Package playlist parses and builds IPTV channel playlists: free-form bulk
// text, the M3U/M3U8 format, and the M3U writer used for export.
//
// All parsing here is total. Playlist text is adversarial user input by
// design, so malformed lines are dropped instead of rejected and none of the
// functions in this package return an error for bad content.
package playlist

// Channel is one playlist entry.
type Channel struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Group string `json:"group"`
	Logo  string `json:"logo"`
}
