package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/validation"
)

type validateCIFRequest struct {
	CIF string `json:"cif"`
}

type validateCIFResponse struct {
	Result      *validation.Result     `json:"result"`
	Badge       interface{}            `json:"badge"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Company     *validation.ClientData `json:"company,omitempty"`
}

// validateCIF runs the format check and registry lookup in one shot. The
// debounced flow lives on the websocket; this endpoint backs server-side
// callers that already have settled input.
func (r *Router) validateCIF(w http.ResponseWriter, req *http.Request) {
	var body validateCIFRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, company := validation.Validate(req.Context(), body.CIF, r.lookup.LookupFunc())

	respondJSON(w, http.StatusOK, validateCIFResponse{
		Result:      result,
		Badge:       validation.StatusBadge(result),
		Suggestions: validation.SuggestionsFor(result),
		Company:     company,
	})
}
