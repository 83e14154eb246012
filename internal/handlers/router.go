package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/buildinfo"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/config"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/database"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/middleware"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/services/lookup"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/services/oblio"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/services/shipping"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/websocket"
)

// Router wraps the mux router and the services the handlers depend on
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	logger   *zap.SugaredLogger
	lookup   *lookup.Service
	shipping *shipping.Service
	invoices *oblio.Service
	hub      *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, logger *zap.SugaredLogger,
	lookupSvc *lookup.Service, shippingSvc *shipping.Service, invoiceSvc *oblio.Service,
	hub *websocket.Hub) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		db:       db,
		cfg:      cfg,
		logger:   logger,
		lookup:   lookupSvc,
		shipping: shippingSvc,
		invoices: invoiceSvc,
		hub:      hub,
	}

	r.Use(middleware.CaseInsensitiveMiddleware)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// API routes, behind session-token auth
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg))

	api.HandleFunc("/cif/validate", r.validateCIF).Methods("POST")
	api.HandleFunc("/orders/package", r.orderPackage).Methods("POST")

	api.HandleFunc("/shipments", r.createShipment).Methods("POST")
	api.HandleFunc("/shipments", r.listShipments).Methods("GET")
	api.HandleFunc("/shipments/{id}", r.getShipment).Methods("GET")
	api.HandleFunc("/shipments/{id}", r.cancelShipment).Methods("DELETE")
	api.HandleFunc("/shipments/{id}/refresh", r.refreshShipment).Methods("POST")
	api.HandleFunc("/shipments/{id}/label", r.shipmentLabel).Methods("GET")
	api.HandleFunc("/shipments/{id}/events", r.shipmentEvents).Methods("GET")

	api.HandleFunc("/invoices", r.createInvoice).Methods("POST")
	api.HandleFunc("/invoices", r.listInvoices).Methods("GET")
	api.HandleFunc("/invoices/{id}", r.cancelInvoice).Methods("DELETE")

	// Live CIF validation stream
	r.HandleFunc("/ws/validation", r.serveValidationWS).Methods("GET")

	// Storefront webhooks, verified by HMAC
	webhooks := r.PathPrefix("/webhooks").Subrouter()
	webhooks.Use(middleware.WebhookMiddleware(cfg.Shopify.WebhookSecret))
	webhooks.HandleFunc("/orders-paid", r.orderPaidWebhook).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"startTime":  buildinfo.StartTime,
		"buildTime":  buildinfo.BuildTime,
		"commitHash": buildinfo.CommitHash,
		"wsClients":  r.hub.ClientCount(),
	})
}

// serveValidationWS upgrades the connection and streams validation events
func (r *Router) serveValidationWS(w http.ResponseWriter, req *http.Request) {
	settle := time.Duration(r.cfg.Validation.SettleMS) * time.Millisecond
	websocket.ServeWs(r.hub, r.lookup.LookupFunc(), settle, w, req)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
