package orders

import (
	log "github.com/sirupsen/logrus"

	"cbtrader/pkg/types"
)

// Sentinel order ids for failed limit orders are the error code prefixed
// with this marker.
const errorOrderIdPrefix = "ORDER_ERROR_"

// Known Advanced Trade error codes for failed limit orders.
const (
	ErrorCodeInsufficientFund          = "INSUFFICIENT_FUND"
	ErrorCodeInvalidLimitPricePostOnly = "INVALID_LIMIT_PRICE_POST_ONLY"
	ErrorCodeInvalidPricePrecision     = "INVALID_PRICE_PRECISION"
)

// ErrorOrderHandler reacts to a classified limit order failure. The error
// order has already been built; handlers add side effects (logging, alerts,
// rebalancing hooks) and must not block.
type ErrorOrderHandler func(order types.Order, errResp *types.ErrorResponse)

// defaultErrorHandlers covers the codes the exchange returns routinely. New
// codes are added through OrderService.HandleErrorCode without touching the
// placement flow.
func defaultErrorHandlers() map[string]ErrorOrderHandler {
	return map[string]ErrorOrderHandler{
		ErrorCodeInsufficientFund: func(order types.Order, _ *types.ErrorResponse) {
			log.Infof("insufficient funds for %s %s order on %s", order.Side, order.Type, order.ProductId)
		},
		ErrorCodeInvalidLimitPricePostOnly: func(order types.Order, _ *types.ErrorResponse) {
			log.Infof("post-only limit price %s would cross the book on %s", order.Price, order.ProductId)
		},
		ErrorCodeInvalidPricePrecision: func(order types.Order, _ *types.ErrorResponse) {
			log.Infof("limit price %s rejected for precision on %s", order.Price, order.ProductId)
		},
	}
}

func unprocessedErrorHandler(order types.Order, errResp *types.ErrorResponse) {
	message := ""
	if errResp != nil {
		message = errResp.Message
	}
	log.Errorf("an unprocessed order error occurred: %s (%s)", order.Id, message)
}
