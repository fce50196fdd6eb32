// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/YuQing-Ding/IPTV-Editor/internal/metrics"
	"github.com/YuQing-Ding/IPTV-Editor/internal/project"
)

type projectRequest struct {
	Name string `json:"name"`
	// UI is opaque client state stored alongside the rows on save.
	UI json.RawMessage `json:"ui,omitempty"`
}

// projectPath resolves a user-supplied project name inside DataDir.
// Path separators are rejected so a name can never escape the directory.
func (s *Server) projectPath(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", false
	}
	if !strings.HasSuffix(name, project.Ext) {
		name += project.Ext
	}
	return filepath.Join(s.holder.Get().DataDir, name), true
}

func (s *Server) handleGetProject(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.list.Document(s.getUI()))
}

func (s *Server) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	path, ok := s.projectPath(req.Name)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project name"})
		return
	}
	if req.UI != nil {
		s.setUI(req.UI)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		metrics.RecordProjectOp("save", err)
		s.writeProjectError(w, err)
		return
	}
	doc := s.list.Document(s.getUI())
	if err := project.Save(path, doc); err != nil {
		metrics.RecordProjectOp("save", err)
		s.logger.Error().Err(err).Str("event", "project.save_failed").Str("path", path).Msg("project save failed")
		s.writeProjectError(w, err)
		return
	}
	s.list.MarkSaved()
	metrics.RecordProjectOp("save", nil)
	s.logger.Info().
		Str("event", "project.saved").
		Str("path", path).
		Int("rows", len(doc.Rows)).
		Msg("project saved")
	writeJSON(w, http.StatusOK, map[string]any{"path": path, "rows": len(doc.Rows)})
}

func (s *Server) handleOpenProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	path, ok := s.projectPath(req.Name)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project name"})
		return
	}

	doc, err := project.Load(path)
	if err != nil {
		metrics.RecordProjectOp("open", err)
		s.logger.Warn().Err(err).Str("event", "project.open_failed").Str("path", path).Msg("project open failed")
		s.writeProjectError(w, err)
		return
	}
	rows := s.list.LoadDocument(doc)
	s.setUI(doc.UI)
	metrics.RecordProjectOp("open", nil)
	s.logger.Info().
		Str("event", "project.opened").
		Str("path", path).
		Int("rows", len(rows)).
		Msg("project opened")
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows, "ui": doc.UI})
}

// handleDownloadProject streams the current list as an encoded project
// container so a client can keep its own copies.
func (s *Server) handleDownloadProject(w http.ResponseWriter, _ *http.Request) {
	data, err := project.Encode(s.list.Document(s.getUI()))
	if err != nil {
		metrics.RecordProjectOp("download", err)
		s.writeProjectError(w, err)
		return
	}
	metrics.RecordProjectOp("download", nil)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="project`+project.Ext+`"`)
	_, _ = w.Write(data)
}

// handleUploadProject replaces the list with an uploaded container body.
func (s *Server) handleUploadProject(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := project.Decode(raw)
	if err != nil {
		metrics.RecordProjectOp("upload", err)
		s.writeProjectError(w, err)
		return
	}
	rows := s.list.LoadDocument(doc)
	s.setUI(doc.UI)
	metrics.RecordProjectOp("upload", nil)
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows, "ui": doc.UI})
}
