package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DIEGO-rav10/UBELEZA/internal/core"
	applog "github.com/DIEGO-rav10/UBELEZA/internal/log"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps service and storage errors to HTTP responses.
// noActiveMsg is the route-specific message for a missing active cycle.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, noActiveMsg string) {
	var kmErr *core.KmBoundError
	var valErr *core.ValidationError

	switch {
	case errors.Is(err, core.ErrNoActiveCycle):
		writeError(w, http.StatusBadRequest, noActiveMsg)
	case errors.Is(err, core.ErrEarningNotFound):
		writeError(w, http.StatusNotFound, "Corrida não encontrada neste ciclo")
	case errors.Is(err, core.ErrExpenseNotFound):
		writeError(w, http.StatusNotFound, "Despesa não encontrada neste ciclo")
	case errors.Is(err, core.ErrArchiveNotFound):
		writeError(w, http.StatusNotFound, "Arquivo não encontrado")
	case errors.Is(err, core.ErrNothingToArchive):
		writeError(w, http.StatusBadRequest, "Sem dados no período atual para arquivar")
	case errors.As(err, &kmErr):
		writeError(w, http.StatusBadRequest, kmErr.Error())
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, valErr.Msg)
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			"error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}
