// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/YuQing-Ding/IPTV-Editor/internal/editor"
)

// targetRows resolves a probe dispatch request: explicit row IDs, or the
// whole list when none are given.
func (s *Server) targetRows(r *http.Request) ([]editor.Row, error) {
	var req idsRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
	}
	if len(req.IDs) == 0 {
		return s.list.Rows(), nil
	}
	rows := make([]editor.Row, 0, len(req.IDs))
	for _, id := range req.IDs {
		if row, ok := s.list.Get(id); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *Server) handleCheckStream(w http.ResponseWriter, r *http.Request) {
	rows, err := s.targetRows(r)
	if err != nil {
		writeError(w, err)
		return
	}
	queued, dropped := 0, 0
	for _, row := range rows {
		if s.pool.EnqueueStream(r.Context(), row.ID, row.Channel.URL) {
			queued++
		} else {
			dropped++
		}
	}
	s.logger.Info().
		Str("event", "check.stream_dispatched").
		Int("queued", queued).
		Int("dropped", dropped).
		Msg("stream checks dispatched")
	writeJSON(w, http.StatusAccepted, map[string]int{"queued": queued, "dropped": dropped})
}

func (s *Server) handleCheckLogo(w http.ResponseWriter, r *http.Request) {
	rows, err := s.targetRows(r)
	if err != nil {
		writeError(w, err)
		return
	}
	queued, dropped := 0, 0
	for _, row := range rows {
		if s.pool.EnqueueLogo(r.Context(), row.ID, row.Channel.Logo) {
			queued++
		} else {
			dropped++
		}
	}
	s.logger.Info().
		Str("event", "check.logo_dispatched").
		Int("queued", queued).
		Int("dropped", dropped).
		Msg("logo checks dispatched")
	writeJSON(w, http.StatusAccepted, map[string]int{"queued": queued, "dropped": dropped})
}

func (s *Server) handleListLanguages(w http.ResponseWriter, _ *http.Request) {
	type lang struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	var out []lang
	for _, pair := range s.i18n.LangList() {
		out = append(out, lang{Code: pair[0], Name: pair[1]})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"current":   s.i18n.Current(),
		"languages": out,
	})
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	if !s.i18n.SetLanguage(req.Code) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown language code"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"current": s.i18n.Current()})
}
