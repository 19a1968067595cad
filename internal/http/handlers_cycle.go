package http

import (
	"net/http"

	"github.com/DIEGO-rav10/UBELEZA/internal/core"
)

// handleStartCycle begins a new active cycle. gas_cost is required and
// must be positive; start_km and fuel_price are optional.
func (s *Server) handleStartCycle(w http.ResponseWriter, r *http.Request) {
	body, err := decodePayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	var gasCost int64
	if body.Has("gas_cost") && !body.IsNull("gas_cost") {
		gasCost, err = body.Cents("gas_cost")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Valor inválido para custo da gasolina")
			return
		}
	}

	var startKm *int64
	if body.Has("start_km") && !body.IsNull("start_km") {
		km, err := body.Int("start_km")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Dados inválidos")
			return
		}
		startKm = &km
	}

	var fuelPrice *int64
	if body.Has("fuel_price") && !body.IsNull("fuel_price") {
		price, err := body.Cents("fuel_price")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Dados inválidos")
			return
		}
		fuelPrice = &price
	}

	cycle, err := s.cycles.StartCycle(r.Context(), gasCost, startKm, fuelPrice)
	if err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo")
		return
	}
	writeJSON(w, http.StatusCreated, cycle.View())
}

// handleFinalizeCycle closes the active cycle and archives it. The body
// is optional; a missing end_km defaults to the cycle's start_km.
func (s *Server) handleFinalizeCycle(w http.ResponseWriter, r *http.Request) {
	body, err := optionalPayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	var endKm *int64
	if body.Has("end_km") && !body.IsNull("end_km") {
		km, err := body.Int("end_km")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Valor inválido para KM final")
			return
		}
		endKm = &km
	}
	note := body.String("note")

	if err := s.cycles.FinalizeCycle(r.Context(), endKm, note); err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo para finalizar")
		return
	}
	s.writeState(w, r, http.StatusOK)
}

// handleUpdateCycle patches fields of the active cycle. Only keys
// present in the body are touched; an explicit null clears a nullable
// field.
func (s *Server) handleUpdateCycle(w http.ResponseWriter, r *http.Request) {
	body, err := decodePayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	var patch core.CyclePatch
	if body.Has("gas_cost") && !body.IsNull("gas_cost") {
		cents, err := body.Cents("gas_cost")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Dados inválidos")
			return
		}
		patch.GasCost = &cents
	}
	if body.Has("fuel_price") {
		patch.FuelPriceSet = true
		if !body.IsNull("fuel_price") {
			cents, err := body.Cents("fuel_price")
			if err != nil {
				writeError(w, http.StatusBadRequest, "Dados inválidos")
				return
			}
			patch.FuelPrice = &cents
		}
	}
	if body.Has("start_km") {
		patch.StartKmSet = true
		if !body.IsNull("start_km") {
			km, err := body.Int("start_km")
			if err != nil {
				writeError(w, http.StatusBadRequest, "Dados inválidos")
				return
			}
			patch.StartKm = &km
		}
	}
	if body.Has("end_km") {
		patch.EndKmSet = true
		if !body.IsNull("end_km") {
			km, err := body.Int("end_km")
			if err != nil {
				writeError(w, http.StatusBadRequest, "Dados inválidos")
				return
			}
			patch.EndKm = &km
		}
	}

	if err := s.cycles.UpdateCurrentCycle(r.Context(), patch); err != nil {
		writeDomainError(w, r, err, "Nenhum ciclo ativo para atualizar")
		return
	}
	s.writeState(w, r, http.StatusOK)
}
