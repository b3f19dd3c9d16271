package cb

import (
	"context"

	"github.com/shopspring/decimal"

	"cbtrader/pkg/types"
)

const createOrderPath = "/api/v3/brokerage/orders"

type createOrderRequest struct {
	ClientOrderId      string             `json:"client_order_id"`
	ProductId          string             `json:"product_id"`
	Side               string             `json:"side"`
	OrderConfiguration orderConfiguration `json:"order_configuration"`
}

type orderConfiguration struct {
	MarketMarketIoc *marketMarketIoc `json:"market_market_ioc,omitempty"`
	LimitLimitGtc   *limitLimitGtc   `json:"limit_limit_gtc,omitempty"`
}

type marketMarketIoc struct {
	QuoteSize string `json:"quote_size,omitempty"`
	BaseSize  string `json:"base_size,omitempty"`
}

type limitLimitGtc struct {
	BaseSize   string `json:"base_size"`
	LimitPrice string `json:"limit_price"`
	PostOnly   bool   `json:"post_only"`
}

// MarketOrderBuy spends quoteSize of the quote currency at market. The
// exchange performs the fiat to base conversion.
func (c *Client) MarketOrderBuy(ctx context.Context, clientOrderId, productId string, quoteSize decimal.Decimal) (*types.CreateOrderResponse, error) {
	return c.createOrder(ctx, createOrderRequest{
		ClientOrderId: clientOrderId,
		ProductId:     productId,
		Side:          string(types.OrderSideBuy),
		OrderConfiguration: orderConfiguration{
			MarketMarketIoc: &marketMarketIoc{QuoteSize: quoteSize.String()},
		},
	})
}

// MarketOrderSell sells baseSize of the base currency at market.
func (c *Client) MarketOrderSell(ctx context.Context, clientOrderId, productId string, baseSize decimal.Decimal) (*types.CreateOrderResponse, error) {
	return c.createOrder(ctx, createOrderRequest{
		ClientOrderId: clientOrderId,
		ProductId:     productId,
		Side:          string(types.OrderSideSell),
		OrderConfiguration: orderConfiguration{
			MarketMarketIoc: &marketMarketIoc{BaseSize: baseSize.String()},
		},
	})
}

// LimitOrderGtcBuy places a good-til-cancelled limit buy.
func (c *Client) LimitOrderGtcBuy(ctx context.Context, clientOrderId, productId string, baseSize, limitPrice decimal.Decimal) (*types.CreateOrderResponse, error) {
	return c.createOrder(ctx, createOrderRequest{
		ClientOrderId: clientOrderId,
		ProductId:     productId,
		Side:          string(types.OrderSideBuy),
		OrderConfiguration: orderConfiguration{
			LimitLimitGtc: &limitLimitGtc{BaseSize: baseSize.String(), LimitPrice: limitPrice.String()},
		},
	})
}

// LimitOrderGtcSell places a good-til-cancelled limit sell.
func (c *Client) LimitOrderGtcSell(ctx context.Context, clientOrderId, productId string, baseSize, limitPrice decimal.Decimal) (*types.CreateOrderResponse, error) {
	return c.createOrder(ctx, createOrderRequest{
		ClientOrderId: clientOrderId,
		ProductId:     productId,
		Side:          string(types.OrderSideSell),
		OrderConfiguration: orderConfiguration{
			LimitLimitGtc: &limitLimitGtc{BaseSize: baseSize.String(), LimitPrice: limitPrice.String()},
		},
	})
}

func (c *Client) createOrder(ctx context.Context, reqBody createOrderRequest) (*types.CreateOrderResponse, error) {
	var res types.CreateOrderResponse
	if err := c.do(ctx, "POST", createOrderPath, reqBody, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
