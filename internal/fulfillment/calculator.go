// Package fulfillment derives carrier package attributes from an order:
// aggregate weight, cash-on-delivery amount and declared insurance value.
// Everything here is pure and total. Partial order data degrades to safe
// defaults instead of returning errors.
package fulfillment

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
)

// Weight handling constants. Units convert through grams with fixed factors;
// an item without weight data contributes fallbackItemGrams per unit.
const (
	gramsPerKilogram = 1000
	gramsPerPound    = 453.592
	gramsPerOunce    = 28.3495

	fallbackItemGrams = 500

	// MinWeightKg is the smallest package weight the carrier accepts.
	MinWeightKg = 0.1

	// DefaultWeightKg is used when the order has no line items at all.
	DefaultWeightKg = 1
)

// TotalWeightKg aggregates line item weights into a package weight in
// kilograms, rounded to 2 decimals and floored at MinWeightKg. An empty or
// nil item list yields DefaultWeightKg.
func TotalWeightKg(items []models.LineItem) float64 {
	if len(items) == 0 {
		return DefaultWeightKg
	}

	grams := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		grams = grams.Add(itemGrams(item.Weight).Mul(qty))
	}

	kg := grams.Div(decimal.NewFromInt(gramsPerKilogram)).Round(2)
	min := decimal.NewFromFloat(MinWeightKg)
	if kg.LessThan(min) {
		kg = min
	}
	f, _ := kg.Float64()
	return f
}

// itemGrams converts a single unit's weight to grams. A missing weight uses
// the fallback; an unrecognized unit treats the raw value as grams.
func itemGrams(w *models.Weight) decimal.Decimal {
	if w == nil {
		return decimal.NewFromInt(fallbackItemGrams)
	}
	value := decimal.NewFromFloat(w.Value)
	switch w.Unit {
	case models.UnitKilograms:
		return value.Mul(decimal.NewFromInt(gramsPerKilogram))
	case models.UnitPounds:
		return value.Mul(decimal.NewFromFloat(gramsPerPound))
	case models.UnitOunces:
		return value.Mul(decimal.NewFromFloat(gramsPerOunce))
	default: // grams, or anything we don't recognize
		return value
	}
}

// CODAmount is what the courier must collect at the door: zero for a fully
// paid order, otherwise the outstanding balance, never negative, rounded to
// 2 decimals. Missing monetary fields count as zero.
func CODAmount(order *models.Order) float64 {
	if order == nil {
		return 0
	}
	if strings.EqualFold(order.DisplayFinancialStatus, models.FinancialStatusPaid) {
		return 0
	}
	due := parseMoney(order.TotalOutstanding)
	received := parseMoney(order.TotalReceived)
	cod := due.Sub(received).Round(2)
	if cod.IsNegative() {
		return 0
	}
	f, _ := cod.Float64()
	return f
}

// DefaultInsuranceValue is the order's current total, falling back to the
// original total, rounded to 2 decimals; zero when both are absent.
func DefaultInsuranceValue(order *models.Order) float64 {
	if order == nil {
		return 0
	}
	total := order.CurrentTotal
	if strings.TrimSpace(total) == "" {
		total = order.OriginalTotal
	}
	f, _ := parseMoney(total).Round(2).Float64()
	return f
}

// StatusBadge maps the order's financial status to a presentation tag.
// Unrecognized tokens pass through as neutral so new storefront statuses
// render without a code change.
func StatusBadge(order *models.Order) models.Badge {
	if order == nil || strings.TrimSpace(order.DisplayFinancialStatus) == "" {
		return models.Badge{Text: "Unknown", Tone: models.ToneNeutral}
	}
	status := strings.ToLower(strings.TrimSpace(order.DisplayFinancialStatus))
	switch status {
	case models.FinancialStatusPaid:
		return models.Badge{Text: "Paid", Tone: models.ToneSuccess}
	case models.FinancialStatusPending:
		return models.Badge{Text: "Pending", Tone: models.ToneAttention}
	case models.FinancialStatusPartiallyPaid:
		return models.Badge{Text: "Partially paid", Tone: models.ToneCaution}
	case models.FinancialStatusRefunded:
		return models.Badge{Text: "Refunded", Tone: models.ToneInfo}
	case models.FinancialStatusPartiallyRefunded:
		return models.Badge{Text: "Partially refunded", Tone: models.ToneInfo}
	case models.FinancialStatusVoided:
		return models.Badge{Text: "Voided", Tone: models.ToneCritical}
	default:
		return models.Badge{Text: order.DisplayFinancialStatus, Tone: models.ToneNeutral}
	}
}

// PackageAttributes bundles the three derived values for one order.
type PackageAttributes struct {
	WeightKg       float64 `json:"weightKg"`
	CODAmount      float64 `json:"codAmount"`
	InsuranceValue float64 `json:"insuranceValue"`
}

// PackageFor computes all package attributes for an order in one call.
func PackageFor(order *models.Order) PackageAttributes {
	var items []models.LineItem
	if order != nil {
		items = order.LineItems
	}
	return PackageAttributes{
		WeightKg:       TotalWeightKg(items),
		CODAmount:      CODAmount(order),
		InsuranceValue: DefaultInsuranceValue(order),
	}
}

// parseMoney parses a decimal money string, treating empty or malformed
// input as zero.
func parseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
