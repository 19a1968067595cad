package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// handleAddEarning records an earning delta against the active cycle.
// amount is the signed difference computed by the client and
// new_period_total is the resulting period total.
func (s *Server) handleAddEarning(w http.ResponseWriter, r *http.Request) {
	body, err := decodePayload(r)
	if err != nil || !body.Has("amount") || !body.Has("new_period_total") {
		writeError(w, http.StatusBadRequest, "Payload inválido. 'amount' e 'new_period_total' são obrigatórios")
		return
	}

	delta, err := body.Cents("amount")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	newPeriodTotal, err := body.Cents("new_period_total")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	ts, ok := body.Time("timestamp")
	if !ok {
		ts = time.Now().UTC()
	}

	if err := s.cycles.AddEarning(r.Context(), delta, newPeriodTotal, ts); err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo para adicionar ganhos")
		return
	}
	s.writeState(w, r, http.StatusOK)
}

func (s *Server) handleEditEarning(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Corrida não encontrada neste ciclo")
		return
	}

	body, err := decodePayload(r)
	if err != nil || !body.Has("amount") {
		writeError(w, http.StatusBadRequest, "Payload inválido. 'amount' é obrigatório")
		return
	}
	amount, err := body.Cents("amount")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Valor inválido para amount")
		return
	}

	if err := s.cycles.EditEarning(r.Context(), id, amount); err != nil {
		writeDomainError(w, r, err, "Ciclo inativo")
		return
	}
	s.writeState(w, r, http.StatusOK)
}

func (s *Server) handleDeleteEarning(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Corrida não encontrada neste ciclo")
		return
	}

	if err := s.cycles.DeleteEarning(r.Context(), id); err != nil {
		writeDomainError(w, r, err, "Ciclo inativo")
		return
	}
	s.writeState(w, r, http.StatusOK)
}
