// Package shipping queues orders for AWB creation and drives the carrier
// providers. Orders are snapshotted into the shipment row so the background
// worker never depends on the storefront being reachable.
package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/config"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/database"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/delivery"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/fulfillment"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/romanian"
)

// Service handles shipment operations
type Service struct {
	db       *database.DB
	registry *delivery.Registry
	config   *config.Config
	logger   *zap.SugaredLogger
}

// NewService creates a new shipping service
func NewService(db *database.DB, cfg *config.Config, logger *zap.SugaredLogger) *Service {
	return &Service{
		db:       db,
		registry: delivery.GetGlobalRegistry(),
		config:   cfg,
		logger:   logger,
	}
}

// RegisterProvider registers a new carrier provider
func (s *Service) RegisterProvider(provider delivery.ProviderInterface) error {
	return s.registry.Register(provider)
}

// CreateShipment queues an order for AWB creation. Derived package
// attributes can be overridden by the caller; overrides stick until the
// shipment is recreated. The returned row is in pending state and will be
// picked up by the worker.
func (s *Service) CreateShipment(order *models.Order, providerCode string, override *fulfillment.PackageAttributes) (*models.Shipment, error) {
	if order == nil {
		return nil, fmt.Errorf("order is required")
	}
	if !s.registry.Has(providerCode) {
		return nil, fmt.Errorf("provider %s not registered", providerCode)
	}

	var existing models.Shipment
	err := s.db.Where("order_id = ? AND status NOT IN ?", order.ID,
		[]string{models.ShipmentStatusCancelled, models.ShipmentStatusError}).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("order %s already has an active shipment (%s)", order.Name, existing.Reference)
	}

	pkg := fulfillment.PackageFor(order)
	if override != nil {
		pkg = *override
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot order: %w", err)
	}

	shipment := models.Shipment{
		Reference:    uuid.NewString(),
		OrderID:      order.ID,
		OrderName:    order.Name,
		ProviderCode: providerCode,
		Status:       models.ShipmentStatusPending,
		WeightKg:     pkg.WeightKg,
		CODAmount:    pkg.CODAmount,
		InsuredValue: pkg.InsuranceValue,
		Currency:     "RON",
		OrderPayload: payload,
	}

	if err := s.db.Create(&shipment).Error; err != nil {
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	s.createEvent(shipment.ID, "Shipment queued", models.ShipmentStatusPending, "")
	return &shipment, nil
}

// ProcessPendingShipments processes all pending shipments
// This should be called by a background worker
func (s *Service) ProcessPendingShipments(ctx context.Context) error {
	var pending []models.Shipment
	if err := s.db.Where("status = ?", models.ShipmentStatusPending).Find(&pending).Error; err != nil {
		return fmt.Errorf("failed to fetch pending shipments: %w", err)
	}

	for i := range pending {
		if err := s.processShipment(ctx, &pending[i]); err != nil {
			s.logger.Errorw("shipment processing failed",
				"shipment", pending[i].Reference, "order", pending[i].OrderName, "error", err)
		}
	}
	return nil
}

// processShipment creates the AWB for a single pending shipment
func (s *Service) processShipment(ctx context.Context, shipment *models.Shipment) error {
	provider, err := s.registry.Get(shipment.ProviderCode)
	if err != nil {
		return s.markShipmentError(shipment, fmt.Sprintf("provider not found: %v", err))
	}

	var order models.Order
	if err := json.Unmarshal(shipment.OrderPayload, &order); err != nil {
		return s.markShipmentError(shipment, fmt.Sprintf("corrupt order snapshot: %v", err))
	}

	req, err := s.buildAWBRequest(shipment, &order)
	if err != nil {
		return s.markShipmentError(shipment, fmt.Sprintf("failed to build request: %v", err))
	}

	resp, err := provider.CreateAWB(ctx, req)
	if err != nil {
		return s.markShipmentError(shipment, fmt.Sprintf("carrier error: %v", err))
	}

	now := time.Now()
	shipment.AWBNumber = resp.AWBNumber
	shipment.Cost = resp.Cost
	if resp.Currency != "" {
		shipment.Currency = resp.Currency
	}
	shipment.Status = models.ShipmentStatusShipped
	shipment.ShippedAt = &now
	shipment.LabelURL = resp.LabelURL
	shipment.ErrorMessage = ""
	if len(resp.LabelPDF) > 0 {
		shipment.LabelData = resp.LabelPDF
	}
	if resp.RawResponse != nil {
		if raw, err := json.Marshal(resp.RawResponse); err == nil {
			shipment.RawResponse = raw
		}
	}

	if err := s.db.Save(shipment).Error; err != nil {
		return fmt.Errorf("failed to save shipment: %w", err)
	}

	s.createEvent(shipment.ID, "AWB "+resp.AWBNumber+" created", models.ShipmentStatusShipped, "")
	s.logger.Infow("AWB created", "order", shipment.OrderName, "awb", resp.AWBNumber, "provider", shipment.ProviderCode)
	return nil
}

// buildAWBRequest assembles the carrier request from the order snapshot.
// Addresses go through the Romanian normalization rules so the carrier gets
// canonical county tokens and the sectorized Bucharest locality.
func (s *Service) buildAWBRequest(shipment *models.Shipment, order *models.Order) (*delivery.AWBRequest, error) {
	sender := s.config.Sender
	if sender.Address == "" || sender.City == "" {
		return nil, fmt.Errorf("sender address not configured - set SENDER_ADDRESS and SENDER_CITY")
	}

	recipient := models.ResolveRecipient(order, nil)
	if recipient.Address == nil {
		return nil, fmt.Errorf("order %s has no shipping or billing address", order.Name)
	}
	if recipient.Name == "" {
		return nil, fmt.Errorf("order %s has no recipient name", order.Name)
	}

	addr := recipient.Address
	street := addr.Address1
	if addr.Address2 != "" {
		street += ", " + addr.Address2
	}

	req := &delivery.AWBRequest{
		OrderNumber: order.Name,
		Sender: delivery.Address{
			Name:    sender.Name,
			Street:  sender.Address,
			City:    sender.City,
			County:  romanian.NormalizeCounty(sender.County),
			Zip:     sender.PostCode,
			Country: "Romania",
			Phone:   sender.Phone,
			Email:   sender.Email,
		},
		Recipient: delivery.Address{
			Name:    recipient.Name,
			Street:  street,
			City:    romanian.FormatLocality(addr),
			County:  romanian.NormalizeCounty(addr.Province),
			Zip:     addr.Zip,
			Country: "Romania",
			Phone:   recipient.Phone,
			Email:   recipient.Email,
			Notes:   order.Note,
		},
		Parcels:       1,
		WeightKg:      shipment.WeightKg,
		CODAmount:     shipment.CODAmount,
		InsuredValue:  shipment.InsuredValue,
		Currency:      shipment.Currency,
		Contents:      "Order " + order.Name,
		Reference:     shipment.Reference,
		ServiceID:     s.config.Sameday.ServiceID,
		PickupPointID: s.config.Sameday.PickupPointID,
	}
	return req, nil
}

// markShipmentError marks a shipment as failed
func (s *Service) markShipmentError(shipment *models.Shipment, errorMsg string) error {
	shipment.Status = models.ShipmentStatusError
	shipment.ErrorMessage = errorMsg

	if err := s.db.Save(shipment).Error; err != nil {
		return fmt.Errorf("failed to mark shipment as error: %w", err)
	}

	s.createEvent(shipment.ID, errorMsg, models.ShipmentStatusError, "")
	return fmt.Errorf("%s", errorMsg)
}

// createEvent creates a tracking history entry
func (s *Service) createEvent(shipmentID int64, description, status, statusCode string) {
	event := models.ShipmentEvent{
		ShipmentID:  shipmentID,
		Timestamp:   time.Now(),
		Status:      status,
		StatusCode:  statusCode,
		Description: description,
	}
	s.db.Create(&event)
}

// RefreshStatus pulls the latest tracking state from the carrier and
// records any new events.
func (s *Service) RefreshStatus(ctx context.Context, id int64) (*models.Shipment, error) {
	shipment, err := s.GetShipment(id)
	if err != nil {
		return nil, err
	}
	if shipment.AWBNumber == "" {
		return nil, fmt.Errorf("shipment %s has no AWB yet", shipment.Reference)
	}

	provider, err := s.registry.Get(shipment.ProviderCode)
	if err != nil {
		return nil, fmt.Errorf("provider not found: %w", err)
	}

	status, err := provider.GetStatus(ctx, shipment.AWBNumber)
	if err != nil {
		return nil, fmt.Errorf("carrier status lookup failed: %w", err)
	}

	if status.Status != "" && status.Status != shipment.Status {
		shipment.Status = status.Status
		if status.Status == models.ShipmentStatusDelivered {
			now := time.Now()
			shipment.DeliveredAt = &now
		}
		if err := s.db.Save(shipment).Error; err != nil {
			return nil, fmt.Errorf("failed to save shipment: %w", err)
		}
		s.createEvent(shipment.ID, status.Status, status.Status, status.StatusCode)
	}
	return shipment, nil
}

// CancelShipment cancels a shipment with the carrier
func (s *Service) CancelShipment(ctx context.Context, id int64) error {
	shipment, err := s.GetShipment(id)
	if err != nil {
		return err
	}

	switch shipment.Status {
	case models.ShipmentStatusCancelled:
		return nil
	case models.ShipmentStatusDelivered:
		return fmt.Errorf("shipment %s is already delivered", shipment.Reference)
	}

	if shipment.AWBNumber != "" {
		provider, err := s.registry.Get(shipment.ProviderCode)
		if err != nil {
			return fmt.Errorf("provider not found: %w", err)
		}
		if err := provider.CancelAWB(ctx, shipment.AWBNumber); err != nil {
			return fmt.Errorf("carrier cancellation failed: %w", err)
		}
	}

	shipment.Status = models.ShipmentStatusCancelled
	if err := s.db.Save(shipment).Error; err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	s.createEvent(shipment.ID, "Shipment cancelled", models.ShipmentStatusCancelled, "")
	return nil
}

// GetShipment returns a shipment by ID
func (s *Service) GetShipment(id int64) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := s.db.First(&shipment, id).Error; err != nil {
		return nil, fmt.Errorf("shipment not found: %w", err)
	}
	return &shipment, nil
}

// GetShipmentByOrder returns the most recent shipment for an order
func (s *Service) GetShipmentByOrder(orderID string) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := s.db.Where("order_id = ?", orderID).Order("created_at DESC").First(&shipment).Error; err != nil {
		return nil, fmt.Errorf("shipment not found: %w", err)
	}
	return &shipment, nil
}

// ListShipments returns shipments with optional status filter
func (s *Service) ListShipments(status string, limit int) ([]models.Shipment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var shipments []models.Shipment
	query := s.db.Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// GetEvents returns tracking history for a shipment, newest first
func (s *Service) GetEvents(shipmentID int64) ([]models.ShipmentEvent, error) {
	var events []models.ShipmentEvent
	if err := s.db.
		Where("shipment_id = ?", shipmentID).
		Order("timestamp DESC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch shipment events: %w", err)
	}
	return events, nil
}
