package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInquiryTotalAmount(t *testing.T) {
	price := 12.5
	inq := &Inquiry{
		Items: []InquiryItem{
			{Quantity: 100, QuotedPrice: &price},
			{Quantity: 40}, // not yet quoted, contributes zero
		},
	}
	assert.Equal(t, 1250.0, inq.TotalAmount())

	assert.Equal(t, 0.0, (&Inquiry{}).TotalAmount())
}

func TestInquiryItemSubtotal(t *testing.T) {
	item := &InquiryItem{Quantity: 3}
	assert.Equal(t, 0.0, item.Subtotal())

	price := 7.2
	item.QuotedPrice = &price
	assert.InDelta(t, 21.6, item.Subtotal(), 1e-9)
}

func TestOrderTotalAmount(t *testing.T) {
	o := &Order{
		Items: []OrderItem{
			{Quantity: 10, UnitPrice: 3.5},
			{Quantity: 2, UnitPrice: 100},
		},
	}
	assert.Equal(t, 235.0, o.TotalAmount())
}
