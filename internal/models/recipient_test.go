package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/romanian"
)

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", FirstNonEmpty("a", "b"))
	assert.Equal(t, "b", FirstNonEmpty("", "b"))
	assert.Equal(t, "c", FirstNonEmpty("", "", "c"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestResolveRecipient(t *testing.T) {
	shipping := &romanian.Address{Address1: "Str. Livrare 1", City: "Cluj-Napoca"}
	billing := &romanian.Address{Address1: "Str. Facturare 2", City: "Iasi"}

	t.Run("shipping address wins over billing", func(t *testing.T) {
		r := ResolveRecipient(&Order{ShippingAddress: shipping, BillingAddress: billing}, nil)
		assert.Same(t, shipping, r.Address)
	})

	t.Run("billing fills in when shipping is absent", func(t *testing.T) {
		r := ResolveRecipient(&Order{BillingAddress: billing}, nil)
		assert.Same(t, billing, r.Address)
	})

	t.Run("customer name wins over company name", func(t *testing.T) {
		r := ResolveRecipient(&Order{
			Customer: &Customer{FirstName: "Ana", LastName: "Pop"},
		}, &Company{Name: "EXEMPLU SRL"})
		assert.Equal(t, "Ana Pop", r.Name)
	})

	t.Run("company name substitutes a missing customer", func(t *testing.T) {
		r := ResolveRecipient(&Order{}, &Company{Name: "EXEMPLU SRL", Email: "office@exemplu.ro"})
		assert.Equal(t, "EXEMPLU SRL", r.Name)
		assert.Equal(t, "office@exemplu.ro", r.Email)
	})

	t.Run("order email outranks company email", func(t *testing.T) {
		r := ResolveRecipient(&Order{Email: "client@mail.ro"}, &Company{Email: "office@exemplu.ro"})
		assert.Equal(t, "client@mail.ro", r.Email)
	})

	t.Run("nil order", func(t *testing.T) {
		assert.Equal(t, Recipient{}, ResolveRecipient(nil, nil))
	})
}

func TestCustomerDisplayName(t *testing.T) {
	assert.Equal(t, "", (*Customer)(nil).DisplayName())
	assert.Equal(t, "Ana", (&Customer{FirstName: "Ana"}).DisplayName())
	assert.Equal(t, "Pop", (&Customer{LastName: "Pop"}).DisplayName())
	assert.Equal(t, "Ana Pop", (&Customer{FirstName: "Ana", LastName: "Pop"}).DisplayName())
}
