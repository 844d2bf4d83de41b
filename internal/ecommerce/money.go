package ecommerce

import "github.com/shopspring/decimal"

var (
	bankTransferFee   = decimal.RequireFromString("2.99")
	cashOnDeliveryFee = decimal.RequireFromString("5.99")
)

// ProcessingFee is the surcharge a payment type adds to an order.
func ProcessingFee(paymentType string) decimal.Decimal {
	switch paymentType {
	case BankTransfer:
		return bankTransferFee
	case CashOnDelivery:
		return cashOnDeliveryFee
	}
	return decimal.Zero
}

// LineItem is one priced entry of an order.
type LineItem struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"gte=0"`
	Quantity int     `json:"quantity" binding:"gte=1"`
}

// Totals holds an order's computed amounts.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Fee      decimal.Decimal
	Total    decimal.Decimal
}

// Compute sums price x quantity and adds shipping, tax and fee, rounding to cents.
func Compute(items []LineItem, shipping, tax float64, fee decimal.Decimal) Totals {
	sub := decimal.Zero
	for _, it := range items {
		sub = sub.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	t := Totals{
		Subtotal: sub.Round(2),
		Shipping: decimal.NewFromFloat(shipping).Round(2),
		Tax:      decimal.NewFromFloat(tax).Round(2),
		Fee:      fee,
	}
	t.Total = t.Subtotal.Add(t.Shipping).Add(t.Tax).Add(t.Fee).Round(2)
	return t
}

func amount(d decimal.Decimal) float64 { return d.InexactFloat64() }
