package cb

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cbtrader/pkg/types"
)

type productResponse struct {
	ProductId      string `json:"product_id"`
	Price          string `json:"price"`
	BaseIncrement  string `json:"base_increment"`
	QuoteIncrement string `json:"quote_increment"`
}

// GetProduct fetches a product's price and quantization increments.
func (c *Client) GetProduct(ctx context.Context, productId string) (*types.ProductSnapshot, error) {
	var res productResponse
	path := fmt.Sprintf("/api/v3/brokerage/products/%s", productId)
	if err := c.do(ctx, "GET", path, nil, &res); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(res.Price)
	if err != nil {
		return nil, fmt.Errorf("bad price %q for %s: %w", res.Price, productId, err)
	}
	baseIncrement, err := decimal.NewFromString(res.BaseIncrement)
	if err != nil {
		return nil, fmt.Errorf("bad base_increment %q for %s: %w", res.BaseIncrement, productId, err)
	}
	quoteIncrement, err := decimal.NewFromString(res.QuoteIncrement)
	if err != nil {
		return nil, fmt.Errorf("bad quote_increment %q for %s: %w", res.QuoteIncrement, productId, err)
	}

	return &types.ProductSnapshot{
		ProductDetails: types.ProductDetails{
			ProductId:      res.ProductId,
			BaseIncrement:  baseIncrement,
			QuoteIncrement: quoteIncrement,
		},
		Price: price,
	}, nil
}
