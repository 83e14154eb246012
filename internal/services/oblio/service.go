package oblio

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/config"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/database"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/romanian"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/validation"
)

// Service issues invoices for orders and records them locally
type Service struct {
	db     *database.DB
	client *Client
	config *config.Config
	logger *zap.SugaredLogger
}

// NewService creates a new invoicing service
func NewService(db *database.DB, client *Client, cfg *config.Config, logger *zap.SugaredLogger) *Service {
	return &Service{
		db:     db,
		client: client,
		config: cfg,
		logger: logger,
	}
}

// InvoiceOrder issues an invoice for an order. companyData carries the
// validated company record for B2B sales and is nil for consumer sales.
func (s *Service) InvoiceOrder(ctx context.Context, order *models.Order, companyData *validation.ClientData) (*models.Invoice, error) {
	if order == nil {
		return nil, fmt.Errorf("order is required")
	}

	var existing models.Invoice
	if err := s.db.Where("order_id = ? AND status = ?", order.ID, models.InvoiceStatusIssued).
		First(&existing).Error; err == nil {
		return nil, fmt.Errorf("order %s already has invoice %s/%s", order.Name, existing.SeriesName, existing.Number)
	}

	req := s.buildInvoiceRequest(order, companyData)
	result, err := s.client.CreateInvoice(ctx, req)

	invoice := models.Invoice{
		OrderID:    order.ID,
		OrderName:  order.Name,
		CIF:        req.Client.CIF,
		SeriesName: s.config.Oblio.SeriesName,
		Currency:   "RON",
	}

	if err != nil {
		invoice.Status = models.InvoiceStatusError
		invoice.ErrorMessage = err.Error()
		if dbErr := s.db.Create(&invoice).Error; dbErr != nil {
			s.logger.Errorw("failed to record invoice error", "order", order.Name, "error", dbErr)
		}
		return nil, fmt.Errorf("invoice creation failed for order %s: %w", order.Name, err)
	}

	invoice.Status = models.InvoiceStatusIssued
	invoice.SeriesName = result.SeriesName
	invoice.Number = result.Number
	invoice.Link = result.Link
	if total, err := strconv.ParseFloat(result.Total, 64); err == nil {
		invoice.Total = total
	}

	if err := s.db.Create(&invoice).Error; err != nil {
		return nil, fmt.Errorf("invoice issued but failed to record locally: %w", err)
	}

	s.logger.Infow("invoice issued", "order", order.Name, "series", invoice.SeriesName, "number", invoice.Number)
	return &invoice, nil
}

// buildInvoiceRequest maps an order to the provider payload. The recipient
// address is normalized into the provider's record shape; a validated
// company record takes precedence over checkout data for B2B sales.
func (s *Service) buildInvoiceRequest(order *models.Order, companyData *validation.ClientData) *InvoiceRequest {
	recipient := models.ResolveRecipient(order, nil)

	var addr *romanian.Address
	if recipient.Address != nil {
		addr = recipient.Address
	}
	record := romanian.FormatAddress(addr)

	client := ClientInfo{
		Name:    recipient.Name,
		Address: record.Street,
		City:    record.City,
		State:   record.State,
		Country: "Romania",
		Email:   recipient.Email,
		Phone:   recipient.Phone,
	}

	if companyData != nil {
		client.Name = companyData.Name
		client.CIF = companyData.CIF
		client.RC = companyData.RegistrationNumber
		if companyData.Address != "" {
			client.Address = companyData.Address
		}
		if companyData.City != "" {
			client.City = companyData.City
		}
		if companyData.County != "" {
			client.State = companyData.County
		}
		client.Email = models.FirstNonEmpty(client.Email, companyData.Email)
		client.Phone = models.FirstNonEmpty(client.Phone, companyData.Phone)
	}

	req := &InvoiceRequest{
		CIF:        s.config.Oblio.CompanyCIF,
		Client:     client,
		SeriesName: s.config.Oblio.SeriesName,
		Language:   "RO",
	}
	for _, item := range order.LineItems {
		if item.Quantity <= 0 {
			continue
		}
		price, _ := decimal.NewFromString(strings.TrimSpace(item.Price))
		priceF, _ := price.Round(2).Float64()
		req.Products = append(req.Products, Product{
			Name:          item.Title,
			Code:          item.SKU,
			Price:         priceF,
			Quantity:      item.Quantity,
			MeasuringUnit: "buc",
			Currency:      "RON",
			VATIncluded:   true,
		})
	}
	return req
}

// CancelInvoice cancels an issued invoice both at the provider and locally
func (s *Service) CancelInvoice(ctx context.Context, id int64) error {
	var invoice models.Invoice
	if err := s.db.First(&invoice, id).Error; err != nil {
		return fmt.Errorf("invoice not found: %w", err)
	}
	if invoice.Status == models.InvoiceStatusCancelled {
		return nil
	}
	if invoice.Status != models.InvoiceStatusIssued {
		return fmt.Errorf("invoice %d is not issued", id)
	}

	if err := s.client.CancelInvoice(ctx, s.config.Oblio.CompanyCIF, invoice.SeriesName, invoice.Number); err != nil {
		return err
	}

	invoice.Status = models.InvoiceStatusCancelled
	if err := s.db.Save(&invoice).Error; err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

// GetInvoiceByOrder returns the most recent invoice for an order
func (s *Service) GetInvoiceByOrder(orderID string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Where("order_id = ?", orderID).Order("created_at DESC").First(&invoice).Error; err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}
	return &invoice, nil
}

// ListInvoices returns invoices with optional status filter
func (s *Service) ListInvoices(status string, limit int) ([]models.Invoice, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var invoices []models.Invoice
	query := s.db.Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
