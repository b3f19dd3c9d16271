package sizing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cbtrader/pkg/types"
)

// LimitTerms is the quantized (price, size) pair for a limit order.
type LimitTerms struct {
	Price    decimal.Decimal
	BaseSize decimal.Decimal
}

// Config carries the per-call pricing defaults. Injected rather than read
// from package globals so callers can override per order.
type Config struct {
	BuyPriceMultiplier  decimal.Decimal
	SellPriceMultiplier decimal.Decimal
	MakerFeeRate        decimal.Decimal
	TakerFeeRate        decimal.Decimal
}

// DefaultConfig matches the exchange's published maker/taker tier and the
// multipliers used when no explicit limit price is given.
func DefaultConfig() Config {
	return Config{
		BuyPriceMultiplier:  decimal.RequireFromString("0.9995"),
		SellPriceMultiplier: decimal.RequireFromString("1.005"),
		MakerFeeRate:        decimal.RequireFromString("0.006"),
		TakerFeeRate:        decimal.RequireFromString("0.008"),
	}
}

// incrementPlaces derives the rounding precision from an increment's decimal
// representation: "0.00001" allows 5 fractional digits, "1" allows none.
func incrementPlaces(increment decimal.Decimal) int32 {
	if increment.Exponent() >= 0 {
		return 0
	}
	return -increment.Exponent()
}

// BaseSize computes the largest base-currency quantity purchasable for
// fiatAmount at price, floored to the base increment so the resulting
// notional never exceeds the fiat budget.
func BaseSize(fiatAmount, price, baseIncrement decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("price must be positive, got %s", price)
	}
	if fiatAmount.IsNegative() {
		return decimal.Zero, fmt.Errorf("fiat amount must be non-negative, got %s", fiatAmount)
	}
	return fiatAmount.Div(price).RoundFloor(incrementPlaces(baseIncrement)), nil
}

// QuantizePrice rounds price to the quote increment's precision, half away
// from zero.
func QuantizePrice(price, quoteIncrement decimal.Decimal) decimal.Decimal {
	return price.Round(incrementPlaces(quoteIncrement))
}

// LimitOrderTerms derives the operative limit price and base size for a
// fiat-denominated limit order. An explicit limitPrice wins over the
// multiplier; otherwise the price is spot x multiplier. SELL sizes the
// fiat amount at the adjusted price; BUY floors so the notional stays
// within the budget.
func LimitOrderTerms(
	fiatAmount decimal.Decimal,
	side types.OrderSide,
	spotPrice decimal.Decimal,
	limitPrice *decimal.Decimal,
	multiplier decimal.Decimal,
	details types.ProductDetails,
) (LimitTerms, error) {
	adjusted := spotPrice.Mul(multiplier)
	if limitPrice != nil {
		adjusted = *limitPrice
	}
	adjusted = QuantizePrice(adjusted, details.QuoteIncrement)
	if !adjusted.IsPositive() {
		return LimitTerms{}, fmt.Errorf("adjusted price must be positive, got %s", adjusted)
	}

	var baseSize decimal.Decimal
	if side == types.OrderSideSell {
		baseSize = fiatAmount.Div(adjusted).Round(incrementPlaces(details.BaseIncrement))
	} else {
		var err error
		baseSize, err = BaseSize(fiatAmount, adjusted, details.BaseIncrement)
		if err != nil {
			return LimitTerms{}, err
		}
	}
	if baseSize.IsNegative() {
		return LimitTerms{}, fmt.Errorf("base size must be non-negative, got %s", baseSize)
	}

	return LimitTerms{Price: adjusted, BaseSize: baseSize}, nil
}
