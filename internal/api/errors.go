// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/YuQing-Ding/IPTV-Editor/internal/project"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a generic 400 error response.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
}

// writeProjectError maps project decode failures onto HTTP statuses with
// localized messages. Structural problems with the file body are the
// client's data, not a server fault, so they report 422.
func (s *Server) writeProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrBadMagic):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  "invalid_magic",
			"detail": s.i18n.Tr("err_invalid_magic"),
		})
	case errors.Is(err, project.ErrMissingPayload):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  "missing_payload",
			"detail": s.i18n.Tr("err_missing_payload"),
		})
	case errors.Is(err, project.ErrCorrupt):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  "corrupted",
			"detail": s.i18n.Tr("err_corrupted"),
		})
	case os.IsNotExist(err):
		writeNotFound(w, "project file not found")
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
