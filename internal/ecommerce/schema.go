package ecommerce

import (
	"strings"

	"github.com/varshinivarma16/booksbackend/internal/resource"
)

// Payment method types accepted at checkout.
const (
	CreditDebitCard = "CreditDebitCard"
	PayPal          = "PayPal"
	ApplePay        = "ApplePay"
	GooglePay       = "GooglePay"
	BankTransfer    = "BankTransfer"
	CashOnDelivery  = "CashOnDelivery"
)

var PaymentTypes = []string{CreditDebitCard, PayPal, ApplePay, GooglePay, BankTransfer, CashOnDelivery}

var paymentMethodSchema = &resource.Schema{
	Collection: "paymentmethods",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "id", Kind: resource.KindString, Required: true, Rules: "uuid4"},
		{Name: "type", Kind: resource.KindString, Required: true, Rules: "oneof=" + strings.Join(PaymentTypes, " "),
			Message: "type must be one of " + strings.Join(PaymentTypes, ", ")},
		{Name: "cardNumber", Kind: resource.KindString},
		{Name: "expiryDate", Kind: resource.KindString},
		{Name: "cardLast4", Kind: resource.KindString},
		{Name: "cardholderName", Kind: resource.KindString},
		{Name: "processingFee", Kind: resource.KindNumber, Default: 0.0},
	},
}

var orderSchema = &resource.Schema{
	Collection: "orders",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "id", Kind: resource.KindString, Required: true, Rules: "uuid4"},
		{Name: "items", Kind: resource.KindArray, Elem: resource.KindObject, Required: true},
		{Name: "subtotal", Kind: resource.KindNumber, Default: 0.0},
		{Name: "shipping", Kind: resource.KindNumber, Default: 0.0},
		{Name: "tax", Kind: resource.KindNumber, Default: 0.0},
		{Name: "processingFee", Kind: resource.KindNumber, Default: 0.0},
		{Name: "total", Kind: resource.KindNumber, Default: 0.0},
		{Name: "paymentMethodId", Kind: resource.KindString, Required: true, Message: "paymentMethodId is required"},
	},
}

// public hides the storage id; methods and orders are addressed by uuid.
var public = resource.Exclude("_id")
