// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/YuQing-Ding/IPTV-Editor/internal/log"
	"github.com/YuQing-Ding/IPTV-Editor/internal/playlist"
	"github.com/YuQing-Ding/IPTV-Editor/internal/project"
	"github.com/YuQing-Ding/IPTV-Editor/internal/textenc"
)

// runConvert converts between the supported playlist representations.
// The direction is picked from the file extensions: .iptvpj is the
// project container, .m3u/.m3u8 is a playlist, anything else is treated
// as bulk text.
func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	in := fs.String("in", "", "input file (.m3u, .m3u8, .iptvpj or bulk text)")
	out := fs.String("out", "", "output file (.m3u or .iptvpj)")
	group := fs.String("group", "", "default group for bulk text input")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("convert: both -in and -out are required")
	}

	channels, err := readChannels(*in, *group)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		return fmt.Errorf("convert: %s contains no channels", *in)
	}

	switch strings.ToLower(filepath.Ext(*out)) {
	case project.Ext:
		err = project.Save(*out, project.Document{Ver: project.CurrentVersion, Rows: channels})
	case ".m3u", ".m3u8":
		err = renameio.WriteFile(*out, []byte(playlist.BuildM3U(channels)), 0o644)
	default:
		return fmt.Errorf("convert: unsupported output extension %q", filepath.Ext(*out))
	}
	if err != nil {
		return err
	}

	logger := log.WithComponent("convert")
	logger.Info().
		Str("in", *in).
		Str("out", *out).
		Int("channels", len(channels)).
		Msg("converted playlist")
	return nil
}

// readChannels loads channels from any supported input file.
func readChannels(path, defaultGroup string) ([]playlist.Channel, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case project.Ext:
		doc, err := project.Load(path)
		if err != nil {
			return nil, err
		}
		return doc.Rows, nil
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text := textenc.Decode(raw)
		if strings.HasPrefix(strings.TrimSpace(strings.ToUpper(text)), "#EXTM3U") {
			return playlist.ParseM3U(text, defaultGroup), nil
		}
		return playlist.ParseBulk(text, defaultGroup), nil
	}
}
