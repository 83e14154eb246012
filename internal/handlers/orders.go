package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/fulfillment"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/romanian"
)

type orderPackageResponse struct {
	Package  fulfillment.PackageAttributes `json:"package"`
	Badge    models.Badge                  `json:"badge"`
	Locality string                        `json:"locality"`
	Address  romanian.NormalizedAddress    `json:"address"`
}

// orderPackage derives the carrier package attributes and the normalized
// address for an order payload. Partial orders are fine; the calculator
// degrades to defaults.
func (r *Router) orderPackage(w http.ResponseWriter, req *http.Request) {
	var order models.Order
	if err := json.NewDecoder(req.Body).Decode(&order); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	recipient := models.ResolveRecipient(&order, nil)

	respondJSON(w, http.StatusOK, orderPackageResponse{
		Package:  fulfillment.PackageFor(&order),
		Badge:    fulfillment.StatusBadge(&order),
		Locality: romanian.FormatLocality(recipient.Address),
		Address:  romanian.FormatAddress(recipient.Address),
	})
}
