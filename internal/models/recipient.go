package models

import (
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/romanian"
)

// Recipient is the resolved "who and where" for a shipment or invoice,
// produced by an explicit precedence rule instead of scattered truthiness
// checks so the substitution order stays auditable.
type Recipient struct {
	Name    string
	Email   string
	Phone   string
	Address *romanian.Address
}

// FirstNonEmpty returns the first argument that is not the empty string.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ResolveRecipient merges the partial records on an order into a single
// recipient. Precedence:
//
//	address: shipping, then billing
//	name:    customer name, then validated company name
//	email:   customer email, then order email, then company email
//	phone:   customer phone, then order phone, then company phone
//
// company may be nil (consumer sale); order may have either address missing.
func ResolveRecipient(order *Order, company *Company) Recipient {
	if order == nil {
		return Recipient{}
	}

	addr := order.ShippingAddress
	if addr == nil {
		addr = order.BillingAddress
	}

	var companyName, companyEmail, companyPhone string
	if company != nil {
		companyName = company.Name
		companyEmail = company.Email
		companyPhone = company.Phone
	}

	return Recipient{
		Name:    FirstNonEmpty(order.Customer.DisplayName(), companyName),
		Email:   FirstNonEmpty(customerEmail(order.Customer), order.Email, companyEmail),
		Phone:   FirstNonEmpty(customerPhone(order.Customer), order.Phone, companyPhone),
		Address: addr,
	}
}

func customerEmail(c *Customer) string {
	if c == nil {
		return ""
	}
	return c.Email
}

func customerPhone(c *Customer) string {
	if c == nil {
		return ""
	}
	return c.Phone
}
