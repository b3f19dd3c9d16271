package types

import "github.com/shopspring/decimal"

// ProductDetails holds the exchange-mandated quantization steps for a
// product. BaseIncrement bounds order size precision, QuoteIncrement bounds
// price precision.
type ProductDetails struct {
	ProductId      string          `json:"product_id"`
	BaseIncrement  decimal.Decimal `json:"base_increment"`
	QuoteIncrement decimal.Decimal `json:"quote_increment"`
}

// ProductSnapshot is a point-in-time read of a product: its increments plus
// the current price.
type ProductSnapshot struct {
	ProductDetails
	Price decimal.Decimal `json:"price"`
}
