package http

import (
	"net/http"

	applog "github.com/DIEGO-rav10/UBELEZA/internal/log"
)

// handleGetState returns the full application state: the current cycle,
// its earnings and expenses, and every archive document.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.cycles.State(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo")
		return
	}
	writeJSON(w, http.StatusOK, state.View())
}

// writeState responds with the refreshed application state. Mutating
// handlers call this after a successful operation.
func (s *Server) writeState(w http.ResponseWriter, r *http.Request, status int) {
	state, err := s.cycles.State(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo")
		return
	}
	writeJSON(w, status, state.View())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.cycles.Reset(r.Context()); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "database reset failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erro ao resetar o banco")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Banco de dados resetado com sucesso."})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "banco de dados indisponível")
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
