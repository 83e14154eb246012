package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/validation"
)

type createInvoiceRequest struct {
	Order models.Order `json:"order"`
	CIF   string       `json:"cif,omitempty"` // company tax code for B2B sales
}

// createInvoice issues an invoice for an order. When a CIF is supplied the
// company record is validated first and stamped on the document.
func (r *Router) createInvoice(w http.ResponseWriter, req *http.Request) {
	var body createInvoiceRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Order.ID == "" {
		respondError(w, http.StatusBadRequest, "order.id is required")
		return
	}

	var companyData *validation.ClientData
	if body.CIF != "" {
		result, data := validation.Validate(req.Context(), body.CIF, r.lookup.LookupFunc())
		if !result.Valid {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":       "CIF validation failed",
				"result":      result,
				"suggestions": validation.SuggestionsFor(result),
			})
			return
		}
		companyData = data
	}

	invoice, err := r.invoices.InvoiceOrder(req.Context(), &body.Order, companyData)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, invoice)
}

// listInvoices returns invoices, optionally filtered by status
func (r *Router) listInvoices(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	invoices, err := r.invoices.ListInvoices(req.URL.Query().Get("status"), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

// cancelInvoice cancels an issued invoice at the provider
func (r *Router) cancelInvoice(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	if err := r.invoices.CancelInvoice(req.Context(), id); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": models.InvoiceStatusCancelled})
}
