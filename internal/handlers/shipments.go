package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/fulfillment"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/services/printer"
)

type createShipmentRequest struct {
	Order    models.Order                   `json:"order"`
	Provider string                         `json:"provider"`
	Override *fulfillment.PackageAttributes `json:"override,omitempty"`
}

// createShipment queues an order for AWB creation
func (r *Router) createShipment(w http.ResponseWriter, req *http.Request) {
	var body createShipmentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Order.ID == "" {
		respondError(w, http.StatusBadRequest, "order.id is required")
		return
	}
	if body.Provider == "" {
		body.Provider = "sameday"
	}

	shipment, err := r.shipping.CreateShipment(&body.Order, body.Provider, body.Override)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, shipment)
}

// listShipments returns shipments, optionally filtered by status
func (r *Router) listShipments(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	shipments, err := r.shipping.ListShipments(req.URL.Query().Get("status"), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, shipments)
}

func (r *Router) getShipment(w http.ResponseWriter, req *http.Request) {
	id, err := shipmentID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shipment id")
		return
	}

	shipment, err := r.shipping.GetShipment(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, shipment)
}

// cancelShipment cancels the AWB with the carrier
func (r *Router) cancelShipment(w http.ResponseWriter, req *http.Request) {
	id, err := shipmentID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shipment id")
		return
	}

	if err := r.shipping.CancelShipment(req.Context(), id); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": models.ShipmentStatusCancelled})
}

// refreshShipment pulls fresh tracking state from the carrier
func (r *Router) refreshShipment(w http.ResponseWriter, req *http.Request) {
	id, err := shipmentID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shipment id")
		return
	}

	shipment, err := r.shipping.RefreshStatus(req.Context(), id)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, shipment)
}

// shipmentLabel serves the label PDF, preferring the carrier's own label
// and generating an in-house one otherwise.
func (r *Router) shipmentLabel(w http.ResponseWriter, req *http.Request) {
	id, err := shipmentID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shipment id")
		return
	}

	shipment, err := r.shipping.GetShipment(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if shipment.AWBNumber == "" {
		respondError(w, http.StatusConflict, "shipment has no AWB yet")
		return
	}

	label := shipment.LabelData
	if len(label) == 0 {
		var order models.Order
		_ = json.Unmarshal(shipment.OrderPayload, &order)
		recipient := models.ResolveRecipient(&order, nil)

		data := printer.LabelFor(shipment, &order, recipient.Name, "", "", "")
		if recipient.Address != nil {
			data.Street = recipient.Address.Address1
			data.City = recipient.Address.City
			data.County = recipient.Address.Province
		}
		data.Phone = recipient.Phone
		data.SenderName = r.cfg.Sender.Name
		data.SenderCity = r.cfg.Sender.City

		label, err = printer.GenerateAWBLabelPDF(data)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "label generation failed: "+err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="awb-`+shipment.AWBNumber+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(label)
}

func (r *Router) shipmentEvents(w http.ResponseWriter, req *http.Request) {
	id, err := shipmentID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shipment id")
		return
	}

	events, err := r.shipping.GetEvents(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func shipmentID(req *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
}
