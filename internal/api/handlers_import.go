// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"io"
	"net/http"

	"github.com/YuQing-Ding/IPTV-Editor/internal/editor"
	"github.com/YuQing-Ding/IPTV-Editor/internal/metrics"
	"github.com/YuQing-Ding/IPTV-Editor/internal/playlist"
	"github.com/YuQing-Ding/IPTV-Editor/internal/textenc"
)

// maxImportBody bounds pasted playlists; 32 MiB is far beyond any real one.
const maxImportBody = 32 << 20

// readImportBody reads the raw request body and normalizes it to UTF-8.
// Import payloads come from files and clipboards in the wild, so the
// bytes may be GB18030, Big5 or anything else.
func readImportBody(r *http.Request) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
	if err != nil {
		return "", err
	}
	return textenc.Decode(raw), nil
}

// importMode returns the requested import mode; anything but "append"
// replaces the current list.
func importMode(r *http.Request) string {
	if r.URL.Query().Get("mode") == "append" {
		return "append"
	}
	return "replace"
}

func (s *Server) handleImportBulk(w http.ResponseWriter, r *http.Request) {
	text, err := readImportBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	group := r.URL.Query().Get("group")
	if group == "" {
		group = s.holder.Get().DefaultGroup
	}

	channels := playlist.ParseBulk(text, group)
	s.finishImport(w, r, channels, "bulk")
}

func (s *Server) handleImportM3U(w http.ResponseWriter, r *http.Request) {
	text, err := readImportBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	group := r.URL.Query().Get("group")
	if group == "" {
		group = s.holder.Get().DefaultGroup
	}
	channels := playlist.ParseM3U(text, group)
	s.finishImport(w, r, channels, "m3u")
}

func (s *Server) finishImport(w http.ResponseWriter, r *http.Request, channels []playlist.Channel, format string) {
	if len(channels) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "no_content",
			"detail": s.i18n.Tr("msg_no_content"),
		})
		return
	}

	mode := importMode(r)
	var rows []editor.Row
	if mode == "append" {
		rows = s.list.AppendAll(channels)
	} else {
		rows = s.list.Replace(channels)
	}
	metrics.RecordImportRows(format, len(rows))
	s.logger.Info().
		Str("event", "import.done").
		Str("format", format).
		Str("mode", mode).
		Int("rows", len(rows)).
		Msg("playlist imported")

	// logos are cheap to verify, kick their checks off right away
	for _, row := range rows {
		if row.Channel.Logo != "" {
			s.pool.EnqueueLogo(context.Background(), row.ID, row.Channel.Logo)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"imported": len(rows),
		"mode":     mode,
		"rows":     rows,
	})
}

func (s *Server) handleExportM3U(w http.ResponseWriter, _ *http.Request) {
	channels := s.list.Channels()
	exportable := 0
	for _, ch := range channels {
		if ch.URL != "" {
			exportable++
		}
	}
	if exportable == 0 {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  "no_channel",
			"detail": s.i18n.Tr("msg_no_channel"),
		})
		return
	}

	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.Header().Set("Content-Disposition", `attachment; filename="playlist.m3u"`)
	if err := playlist.WriteM3U(w, channels); err != nil {
		s.logger.Error().Err(err).Str("event", "export.failed").Msg("m3u export failed")
	}
}
