package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	OrderSideBuy  = OrderSide("BUY")
	OrderSideSell = OrderSide("SELL")
)

type OrderType string

const (
	OrderTypeMarket = OrderType("MARKET")
	OrderTypeLimit  = OrderType("LIMIT")
)

type OrderStatus string

const (
	OrderStatusPending = OrderStatus("pending")
	OrderStatusError   = OrderStatus("error")
)

// Order is the terminal artifact of a placement call. It is built once and
// never mutated afterwards. For failed limit orders Id carries the
// "ORDER_ERROR_<code>" sentinel and Status is OrderStatusError.
type Order struct {
	Id        string          `json:"id"`
	ProductId string          `json:"product_id"`
	Side      OrderSide       `json:"side"`
	Type      OrderType       `json:"type"`
	Size      decimal.Decimal `json:"size"`
	Price     decimal.Decimal `json:"price"` // zero for market orders
	Status    OrderStatus     `json:"status"`
}

// HasPrice reports whether the order carries a limit price. Market orders
// never do.
func (o Order) HasPrice() bool {
	return o.Type == OrderTypeLimit && !o.Price.IsZero()
}

// SplitProductId splits "BTC-USDC" into its base and quote currency codes.
func SplitProductId(productId string) (base string, quote string, err error) {
	parts := strings.Split(productId, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid product id: %q", productId)
	}
	return parts[0], parts[1], nil
}
