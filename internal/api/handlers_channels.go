// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/YuQing-Ding/IPTV-Editor/internal/editor"
	"github.com/YuQing-Ding/IPTV-Editor/internal/playlist"
)

type idsRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleListChannels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":  s.list.Rows(),
		"dirty": s.list.Dirty(),
	})
}

func (s *Server) handleAddChannel(w http.ResponseWriter, r *http.Request) {
	var ch playlist.Channel
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		writeError(w, err)
		return
	}
	var row editor.Row
	if at := r.URL.Query().Get("at"); at != "" {
		idx, err := strconv.Atoi(at)
		if err != nil {
			writeError(w, err)
			return
		}
		row = s.list.Insert(idx, ch)
	} else {
		row = s.list.Append(ch)
	}
	s.scheduleRowChecks(row.ID, ch, playlist.Channel{})
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleUpdateChannel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prev, ok := s.list.Get(id)
	if !ok {
		writeNotFound(w, "row not found")
		return
	}
	var ch playlist.Channel
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		writeError(w, err)
		return
	}
	row, ok := s.list.Update(id, ch)
	if !ok {
		writeNotFound(w, "row not found")
		return
	}
	s.scheduleRowChecks(id, ch, prev.Channel)
	writeJSON(w, http.StatusOK, row)
}

// scheduleRowChecks re-probes a row whose URL or logo changed, debounced
// so rapid consecutive edits collapse into one check per field.
func (s *Server) scheduleRowChecks(id string, next, prev playlist.Channel) {
	if next.URL != "" && next.URL != prev.URL {
		url := next.URL
		s.deb.Trigger(id+"|stream", func() {
			s.pool.EnqueueStream(context.Background(), id, url)
		})
	}
	if next.Logo != "" && next.Logo != prev.Logo {
		logo := next.Logo
		s.deb.Trigger(id+"|logo", func() {
			s.pool.EnqueueLogo(context.Background(), id, logo)
		})
	}
}

func (s *Server) handleDeleteChannels(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	for _, id := range req.IDs {
		s.deb.Cancel(id + "|stream")
		s.deb.Cancel(id + "|logo")
	}
	removed := s.list.Delete(req.IDs)
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handleMoveChannels(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs   []string `json:"ids"`
		Delta int      `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	s.list.Move(req.IDs, req.Delta)
	writeJSON(w, http.StatusOK, map[string]any{"rows": s.list.Rows()})
}

func (s *Server) handleMoveToEdge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
		Top bool     `json:"top"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	s.list.MoveToEdge(req.IDs, req.Top)
	writeJSON(w, http.StatusOK, map[string]any{"rows": s.list.Rows()})
}

func (s *Server) handleAutoName(w http.ResponseWriter, _ *http.Request) {
	changed := s.list.AutoName()
	writeJSON(w, http.StatusOK, map[string]any{
		"changed": changed,
		"rows":    s.list.Rows(),
	})
}
