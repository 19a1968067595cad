package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DIEGO-rav10/UBELEZA/internal/core"
)

func (s *Server) handleListArchives(w http.ResponseWriter, r *http.Request) {
	archives, err := s.archives.ListArchives(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo")
		return
	}
	writeJSON(w, http.StatusOK, core.ArchiveDocuments(archives))
}

// handleArchivePeriod snapshots the current period into an archive and
// zeroes the cycle's totals. The body is optional and may carry a note.
func (s *Server) handleArchivePeriod(w http.ResponseWriter, r *http.Request) {
	body, err := optionalPayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	if err := s.cycles.ArchivePeriod(r.Context(), body.String("note")); err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo para arquivar período")
		return
	}
	s.writeState(w, r, http.StatusOK)
}

func (s *Server) handleDeleteArchive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Arquivo não encontrado")
		return
	}

	remaining, err := s.archives.DeleteArchive(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Arquivo excluído.",
		"archives": core.ArchiveDocuments(remaining),
	})
}
