package web

import (
	"encoding/json"
	"net/http"

	"github.com/vbonduro/glowreader/internal/domain"
)

const maxInterpretBody = 1 << 20

// handleInterpret runs a raw answer through the interpreter so the browser
// page renders the same widgets, prose and links as the terminal client.
func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	var body domain.AnalysisResponse
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInterpretBody))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody, "")
		return
	}
	writeJSON(w, http.StatusOK, s.interp.Interpret(body.Markdown))
}
