// SPDX-License-Identifier: MIT

// Command iptv-editor runs the playlist editor API server and offers
// offline playlist conversion and liveness checking.
package main

import (
	"fmt"
	"os"

	"github.com/YuQing-Ding/IPTV-Editor/internal/log"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `iptv-editor %s

Usage:
  iptv-editor serve   [-config file]            run the editor API server
  iptv-editor convert -in file -out file        convert between playlist formats
  iptv-editor check   -in file [-timeout d]     probe every stream in a playlist
  iptv-editor version                           print version and exit
`, version)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	log.Configure(log.Config{Level: "info", Service: "iptv-editor"})

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "convert":
		err = runConvert(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "version", "-version", "--version":
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger := log.WithComponent("main")
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
