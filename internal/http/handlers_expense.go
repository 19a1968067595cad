package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	body, err := decodePayload(r)
	if err != nil || !body.Has("category") || !body.Has("amount") {
		writeError(w, http.StatusBadRequest, "Payload inválido. 'category' e 'amount' são obrigatórios")
		return
	}

	amount, err := body.Cents("amount")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	ts, ok := body.Time("timestamp")
	if !ok {
		ts = time.Now().UTC()
	}

	if err := s.cycles.AddExpense(r.Context(), body.String("category"), amount, ts); err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo para adicionar despesas")
		return
	}
	s.writeState(w, r, http.StatusCreated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Despesa não encontrada neste ciclo")
		return
	}

	if err := s.cycles.DeleteExpense(r.Context(), id); err != nil {
		writeDomainError(w, r, err, "Ciclo inativo")
		return
	}
	s.writeState(w, r, http.StatusOK)
}
