package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"cbtrader/pkg/sizing"
	"cbtrader/pkg/types"
)

const invalidProductMarker = "Invalid product_id"

// TradingClient submits orders to the exchange. Implementations must be safe
// for concurrent use; cancellation and timeouts belong to the transport.
type TradingClient interface {
	MarketOrderBuy(ctx context.Context, clientOrderId, productId string, quoteSize decimal.Decimal) (*types.CreateOrderResponse, error)
	MarketOrderSell(ctx context.Context, clientOrderId, productId string, baseSize decimal.Decimal) (*types.CreateOrderResponse, error)
	LimitOrderGtcBuy(ctx context.Context, clientOrderId, productId string, baseSize, limitPrice decimal.Decimal) (*types.CreateOrderResponse, error)
	LimitOrderGtcSell(ctx context.Context, clientOrderId, productId string, baseSize, limitPrice decimal.Decimal) (*types.CreateOrderResponse, error)
}

// PriceService reads the spot price and product metadata. Implementations
// must be safe for concurrent use.
type PriceService interface {
	GetSpotPrice(ctx context.Context, productId string) (decimal.Decimal, error)
	GetProductDetails(ctx context.Context, productId string) (*types.ProductDetails, error)
}

// Recorder persists terminal orders (journal, database). Recording is
// best-effort and never fails a placement.
type Recorder interface {
	Record(order types.Order)
}

// IdGenerator produces a unique client order id per submission.
type IdGenerator func() string

// LimitOpts overrides the configured pricing defaults for a single limit
// order. LimitPrice wins over Multiplier when both are set.
type LimitOpts struct {
	LimitPrice *decimal.Decimal
	Multiplier *decimal.Decimal
}

// OrderService places fiat-denominated spot orders. Market orders fail with
// a returned error; limit orders convert business failures into error
// orders the caller inspects via Status and Id. Configure handlers and the
// recorder before sharing the service between goroutines.
type OrderService struct {
	client        TradingClient
	prices        PriceService
	cfg           sizing.Config
	newId         IdGenerator
	recorder      Recorder
	errorHandlers map[string]ErrorOrderHandler
}

func NewOrderService(client TradingClient, prices PriceService, cfg sizing.Config) *OrderService {
	return &OrderService{
		client:        client,
		prices:        prices,
		cfg:           cfg,
		newId:         uuid.NewString,
		errorHandlers: defaultErrorHandlers(),
	}
}

// UseIdGenerator replaces the uuid-based client order id generator.
func (s *OrderService) UseIdGenerator(generate IdGenerator) {
	s.newId = generate
}

// UseRecorder attaches a terminal-order recorder.
func (s *OrderService) UseRecorder(recorder Recorder) {
	s.recorder = recorder
}

// HandleErrorCode registers a handler for a limit order error code,
// replacing any existing one. Unregistered codes fall through to the
// unprocessed-error handler.
func (s *OrderService) HandleErrorCode(code string, handler ErrorOrderHandler) {
	s.errorHandlers[code] = handler
}

// FiatMarketBuy places a market buy order spending fiatAmount of the quote
// currency. The exchange converts fiat to base, so no local sizing happens.
// Returns an error on any failure.
func (s *OrderService) FiatMarketBuy(ctx context.Context, productId, fiatAmount string) (types.Order, error) {
	fiat, err := decimal.NewFromString(fiatAmount)
	if err != nil {
		return types.Order{}, fmt.Errorf("invalid fiat amount %q: %w", fiatAmount, err)
	}

	resp, err := s.client.MarketOrderBuy(ctx, s.newId(), productId, fiat)
	if err = s.checkMarketResponse(resp, err, types.OrderSideBuy); err != nil {
		return types.Order{}, err
	}

	order := types.Order{
		Id:        resp.SuccessResponse.OrderId,
		ProductId: productId,
		Side:      types.OrderSideBuy,
		Type:      types.OrderTypeMarket,
		Size:      fiat,
		Status:    types.OrderStatusPending,
	}
	s.logMarketSuccess(order, fiat)
	s.record(order)
	return order, nil
}

// FiatMarketSell places a market sell order for a base quantity worth
// fiatAmount at the current spot price, floored to the base increment.
// Returns an error on any failure.
func (s *OrderService) FiatMarketSell(ctx context.Context, productId, fiatAmount string) (types.Order, error) {
	fiat, err := decimal.NewFromString(fiatAmount)
	if err != nil {
		return types.Order{}, fmt.Errorf("invalid fiat amount %q: %w", fiatAmount, err)
	}

	spot, details, err := s.marketData(ctx, productId)
	if err != nil {
		return types.Order{}, err
	}
	baseSize, err := sizing.BaseSize(fiat, spot, details.BaseIncrement)
	if err != nil {
		return types.Order{}, err
	}

	resp, err := s.client.MarketOrderSell(ctx, s.newId(), productId, baseSize)
	if err = s.checkMarketResponse(resp, err, types.OrderSideSell); err != nil {
		return types.Order{}, err
	}

	order := types.Order{
		Id:        resp.SuccessResponse.OrderId,
		ProductId: productId,
		Side:      types.OrderSideSell,
		Type:      types.OrderTypeMarket,
		Size:      baseSize,
		Status:    types.OrderStatusPending,
	}
	s.logMarketSuccess(order, fiat)
	s.record(order)
	return order, nil
}

// FiatLimitBuy places a GTC limit buy order spending fiatAmount. opts may be
// nil; the configured buy multiplier then derives the price from spot.
// Business failures come back as an error order, not a Go error.
func (s *OrderService) FiatLimitBuy(ctx context.Context, productId, fiatAmount string, opts *LimitOpts) (types.Order, error) {
	return s.placeLimitOrder(ctx, productId, fiatAmount, opts, types.OrderSideBuy)
}

// FiatLimitSell places a GTC limit sell order for fiatAmount worth of the
// base currency. opts may be nil; the configured sell multiplier then
// derives the price from spot. Business failures come back as an error
// order, not a Go error.
func (s *OrderService) FiatLimitSell(ctx context.Context, productId, fiatAmount string, opts *LimitOpts) (types.Order, error) {
	return s.placeLimitOrder(ctx, productId, fiatAmount, opts, types.OrderSideSell)
}

func (s *OrderService) placeLimitOrder(ctx context.Context, productId, fiatAmount string, opts *LimitOpts, side types.OrderSide) (types.Order, error) {
	log.Infof("starting limit order placement - side: %s, product: %s", side, productId)

	fiat, err := decimal.NewFromString(fiatAmount)
	if err != nil {
		return types.Order{}, fmt.Errorf("invalid fiat amount %q: %w", fiatAmount, err)
	}

	spot, details, err := s.marketData(ctx, productId)
	if err != nil {
		return types.Order{}, err
	}

	multiplier := s.cfg.BuyPriceMultiplier
	if side == types.OrderSideSell {
		multiplier = s.cfg.SellPriceMultiplier
	}
	var limitPrice *decimal.Decimal
	if opts != nil {
		if opts.Multiplier != nil {
			multiplier = *opts.Multiplier
		}
		limitPrice = opts.LimitPrice
	}

	terms, err := sizing.LimitOrderTerms(fiat, side, spot, limitPrice, multiplier, *details)
	if err != nil {
		return types.Order{}, err
	}

	submit := s.client.LimitOrderGtcBuy
	if side == types.OrderSideSell {
		submit = s.client.LimitOrderGtcSell
	}
	resp, err := submit(ctx, s.newId(), productId, terms.BaseSize, terms.Price)
	if err != nil {
		return types.Order{}, fmt.Errorf("limit %s order submission on %s: %w", strings.ToLower(string(side)), productId, err)
	}

	if resp.Success {
		if resp.SuccessResponse == nil {
			return types.Order{}, fmt.Errorf("malformed response for %s: success without success_response", productId)
		}
		order := types.Order{
			Id:        resp.SuccessResponse.OrderId,
			ProductId: productId,
			Side:      side,
			Type:      types.OrderTypeLimit,
			Size:      terms.BaseSize,
			Price:     terms.Price,
			Status:    types.OrderStatusPending,
		}
		s.logLimitSuccess(order)
		s.record(order)
		return order, nil
	}

	if resp.ErrorResponse == nil {
		return types.Order{}, fmt.Errorf("malformed response for %s: failure without error_response", productId)
	}
	code := resp.ErrorResponse.Error
	log.Infof("order placement resulted in %s", code)

	errorOrder := types.Order{
		Id:        errorOrderIdPrefix + code,
		ProductId: productId,
		Side:      side,
		Type:      types.OrderTypeLimit,
		Size:      terms.BaseSize,
		Price:     terms.Price,
		Status:    types.OrderStatusError,
	}
	handler, ok := s.errorHandlers[code]
	if !ok {
		handler = unprocessedErrorHandler
	}
	handler(errorOrder, resp.ErrorResponse)
	s.record(errorOrder)
	return errorOrder, nil
}

// marketData fetches the spot price and product metadata, failing fast with
// ErrMissingMarketData when either is unavailable.
func (s *OrderService) marketData(ctx context.Context, productId string) (decimal.Decimal, *types.ProductDetails, error) {
	spot, err := s.prices.GetSpotPrice(ctx, productId)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("could not get current price for %s: %w", productId, ErrMissingMarketData)
	}
	details, err := s.prices.GetProductDetails(ctx, productId)
	if err != nil || details == nil {
		return decimal.Zero, nil, fmt.Errorf("could not get product details for %s: %w", productId, ErrMissingMarketData)
	}
	return spot, details, nil
}

// checkMarketResponse folds the transport error and a success=false envelope
// into a single returned error. Market orders are single-shot: a duplicate
// resubmission risks duplicate fills, so nothing is retried here.
func (s *OrderService) checkMarketResponse(resp *types.CreateOrderResponse, err error, side types.OrderSide) error {
	sideStr := strings.ToLower(string(side))
	if err == nil {
		if resp.Success {
			if resp.SuccessResponse == nil {
				return fmt.Errorf("malformed response: success without success_response")
			}
			return nil
		}
		message, previewReason := "Unknown error", "Unknown"
		if resp.ErrorResponse != nil {
			if resp.ErrorResponse.Message != "" {
				message = resp.ErrorResponse.Message
			}
			if resp.ErrorResponse.PreviewFailureReason != "" {
				previewReason = resp.ErrorResponse.PreviewFailureReason
			}
		}
		err = fmt.Errorf("failed to place a market %s order. Reason: %s. Preview failure reason: %s", sideStr, message, previewReason)
		log.Error(err)
	}
	if strings.Contains(err.Error(), invalidProductMarker) {
		log.Errorf("failed to place a market %s order. Reason: %v. Preview failure reason: Unknown", sideStr, err)
	}
	return err
}

func (s *OrderService) record(order types.Order) {
	if s.recorder != nil {
		s.recorder.Record(order)
	}
}

func (s *OrderService) logMarketSuccess(order types.Order, fiat decimal.Decimal) {
	base, quote, err := types.SplitProductId(order.ProductId)
	if err != nil {
		return
	}
	side := strings.ToLower(string(order.Side))
	log.Infof("successfully placed a market %s order for %s %s of %s", side, fiat, quote, base)
}

func (s *OrderService) logLimitSuccess(order types.Order) {
	base, quote, err := types.SplitProductId(order.ProductId)
	if err != nil {
		return
	}
	side := strings.ToLower(string(order.Side))
	notional := order.Size.Mul(order.Price).Round(2)
	log.Infof("successfully placed a limit %s order for %s %s ($%s) at a price of %s %s",
		side, order.Size, base, notional, order.Price, quote)
}
