package core

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"cbtrader/pkg/orders"
	"cbtrader/pkg/types"
)

type placeOrderRequest struct {
	ProductId  string `json:"productId"`
	FiatAmount string `json:"fiatAmount"`
	LimitPrice string `json:"limitPrice"` // limit orders only, optional
	Multiplier string `json:"multiplier"` // limit orders only, optional
}

type limitPlacer func(ctx context.Context, productId, fiatAmount string, opts *orders.LimitOpts) (types.Order, error)

func SetupFiberApp(orderService *orders.OrderService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "cbtrader",
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": nil})
	})

	app.Post("/orders/market/buy", func(c *fiber.Ctx) error {
		req, ok := parseOrderRequest(c)
		if !ok {
			return nil
		}
		order, err := orderService.FiatMarketBuy(c.Context(), req.ProductId, req.FiatAmount)
		return orderResponse(c, order, err)
	})

	app.Post("/orders/market/sell", func(c *fiber.Ctx) error {
		req, ok := parseOrderRequest(c)
		if !ok {
			return nil
		}
		order, err := orderService.FiatMarketSell(c.Context(), req.ProductId, req.FiatAmount)
		return orderResponse(c, order, err)
	})

	app.Post("/orders/limit/buy", func(c *fiber.Ctx) error {
		return placeLimitOrder(c, orderService.FiatLimitBuy)
	})

	app.Post("/orders/limit/sell", func(c *fiber.Ctx) error {
		return placeLimitOrder(c, orderService.FiatLimitSell)
	})

	return app
}

func ShutdownFiberApp(app *fiber.App) {
	_ = app.Shutdown()
}

func placeLimitOrder(c *fiber.Ctx, place limitPlacer) error {
	req, ok := parseOrderRequest(c)
	if !ok {
		return nil
	}
	opts, err := parseLimitOpts(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	// Business failures come back as an error order with a 200: callers
	// branch on data.status, mirroring the service contract.
	order, err := place(c.Context(), req.ProductId, req.FiatAmount, opts)
	return orderResponse(c, order, err)
}

func parseOrderRequest(c *fiber.Ctx) (*placeOrderRequest, bool) {
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid request body"})
		return nil, false
	}
	if req.ProductId == "" || req.FiatAmount == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "productId and fiatAmount are required"})
		return nil, false
	}
	return &req, true
}

func orderResponse(c *fiber.Ctx, order types.Order, err error) error {
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

func parseLimitOpts(req *placeOrderRequest) (*orders.LimitOpts, error) {
	opts := &orders.LimitOpts{}
	if req.LimitPrice != "" {
		price, err := decimal.NewFromString(req.LimitPrice)
		if err != nil {
			return nil, err
		}
		opts.LimitPrice = &price
	}
	if req.Multiplier != "" {
		multiplier, err := decimal.NewFromString(req.Multiplier)
		if err != nil {
			return nil, err
		}
		opts.Multiplier = &multiplier
	}
	return opts, nil
}
