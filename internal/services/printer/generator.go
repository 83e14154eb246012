// Package printer renders shipping documents for warehouse printing.
package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
)

// A6 label dimensions in mm
const (
	labelWidth  = 105.0
	labelHeight = 148.0
)

// LabelData holds everything printed on an in-house AWB label. Used when
// the carrier returns no label of its own.
type LabelData struct {
	AWBNumber     string
	OrderName     string
	RecipientName string
	Street        string
	City          string
	County        string
	Zip           string
	Phone         string
	SenderName    string
	SenderCity    string
	WeightKg      float64
	CODAmount     float64
	Currency      string
}

// LabelFor builds label data from a shipment and its order snapshot
func LabelFor(shipment *models.Shipment, order *models.Order, recipientName, street, city, county string) LabelData {
	data := LabelData{
		AWBNumber:     shipment.AWBNumber,
		OrderName:     shipment.OrderName,
		RecipientName: recipientName,
		Street:        street,
		City:          city,
		County:        county,
		WeightKg:      shipment.WeightKg,
		CODAmount:     shipment.CODAmount,
		Currency:      shipment.Currency,
	}
	if order != nil && order.ShippingAddress != nil {
		data.Zip = order.ShippingAddress.Zip
	}
	return data
}

// GenerateAWBLabelPDF creates an A6 label with the AWB barcode content as a
// QR code, the recipient block, and the COD amount when cash must be
// collected.
func GenerateAWBLabelPDF(data LabelData) ([]byte, error) {
	if data.AWBNumber == "" {
		return nil, fmt.Errorf("AWB number is required")
	}

	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(6, 6, 6)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header: sender line
	pdf.SetFont("Arial", "", 8)
	sender := data.SenderName
	if data.SenderCity != "" {
		sender += " / " + data.SenderCity
	}
	pdf.CellFormat(labelWidth-12, 4, sender, "", 1, "L", false, 0, "")
	pdf.Line(6, pdf.GetY()+1, labelWidth-6, pdf.GetY()+1)
	pdf.Ln(3)

	// AWB number, large
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(labelWidth-12, 7, data.AWBNumber, "", 1, "C", false, 0, "")

	// QR code encoding the AWB number for handheld scanners
	qrPng, err := qrcode.Encode(data.AWBNumber, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}
	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("awb_qr", imgOptions, bytes.NewReader(qrPng))

	qrSize := 38.0
	qrX := (labelWidth - qrSize) / 2
	pdf.ImageOptions("awb_qr", qrX, pdf.GetY()+2, qrSize, qrSize, false, imgOptions, 0, "")
	pdf.SetY(pdf.GetY() + qrSize + 5)

	// Recipient block
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(labelWidth-12, 5, data.RecipientName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(labelWidth-12, 4.5, data.Street, "", "L", false)
	locality := data.City
	if data.County != "" && data.County != data.City {
		locality += ", " + data.County
	}
	if data.Zip != "" {
		locality += " " + data.Zip
	}
	pdf.CellFormat(labelWidth-12, 4.5, locality, "", 1, "L", false, 0, "")
	if data.Phone != "" {
		pdf.CellFormat(labelWidth-12, 4.5, "Tel: "+data.Phone, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// Shipment details
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(labelWidth-12, 4, fmt.Sprintf("Order %s  |  %.2f kg", data.OrderName, data.WeightKg), "", 1, "L", false, 0, "")

	// COD box, only when the courier collects cash
	if data.CODAmount > 0 {
		currency := data.Currency
		if currency == "" {
			currency = "RON"
		}
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(labelWidth-12, 8, fmt.Sprintf("RAMBURS: %.2f %s", data.CODAmount, currency), "1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
