package sizing

import (
	"testing"

	"github.com/shopspring/decimal"

	"cbtrader/pkg/types"
)

func d(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", value, err)
	}
	return parsed
}

func btcUsdcDetails(t *testing.T) types.ProductDetails {
	t.Helper()
	return types.ProductDetails{
		ProductId:      "BTC-USDC",
		BaseIncrement:  d(t, "0.00001"),
		QuoteIncrement: d(t, "0.01"),
	}
}

func TestBaseSize(t *testing.T) {
	t.Parallel()

	t.Run("floors to the base increment", func(t *testing.T) {
		size, err := BaseSize(d(t, "100"), d(t, "49750"), d(t, "0.00001"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		// 100 / 49750 = 0.00201005..., floored at 5 decimals
		if !size.Equal(d(t, "0.00201")) {
			t.Fatalf("expected 0.00201, got %s", size)
		}
	})

	t.Run("exact division needs no flooring", func(t *testing.T) {
		size, err := BaseSize(d(t, "30"), d(t, "3000"), d(t, "0.0001"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !size.Equal(d(t, "0.0100")) {
			t.Fatalf("expected 0.0100, got %s", size)
		}
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		if _, err := BaseSize(d(t, "100"), decimal.Zero, d(t, "0.00001")); err == nil {
			t.Fatalf("expected error for zero price")
		}
		if _, err := BaseSize(d(t, "100"), d(t, "-1"), d(t, "0.00001")); err == nil {
			t.Fatalf("expected error for negative price")
		}
	})

	t.Run("rejects negative fiat amount", func(t *testing.T) {
		if _, err := BaseSize(d(t, "-5"), d(t, "100"), d(t, "0.01")); err == nil {
			t.Fatalf("expected error for negative fiat amount")
		}
	})

	t.Run("result is a multiple of the increment and never overspends", func(t *testing.T) {
		cases := []struct {
			fiat, price, increment string
		}{
			{"100", "49750", "0.00001"},
			{"1", "3", "0.0001"},
			{"250.50", "1834.17", "0.001"},
			{"0.01", "99999.99", "0.00000001"},
			{"10000", "0.07", "1"},
		}
		for _, tc := range cases {
			size, err := BaseSize(d(t, tc.fiat), d(t, tc.price), d(t, tc.increment))
			if err != nil {
				t.Fatalf("%v: expected no error, got %v", tc, err)
			}
			if size.IsNegative() {
				t.Fatalf("%v: negative size %s", tc, size)
			}
			if !size.Mod(d(t, tc.increment)).IsZero() {
				t.Fatalf("%v: size %s is not a multiple of %s", tc, size, tc.increment)
			}
			if size.Mul(d(t, tc.price)).GreaterThan(d(t, tc.fiat)) {
				t.Fatalf("%v: notional %s exceeds budget %s", tc, size.Mul(d(t, tc.price)), tc.fiat)
			}
		}
	})
}

func TestQuantizePrice(t *testing.T) {
	t.Parallel()

	t.Run("rounds to the quote increment precision", func(t *testing.T) {
		price := QuantizePrice(d(t, "49750.0000"), d(t, "0.01"))
		if !price.Equal(d(t, "49750.00")) {
			t.Fatalf("expected 49750.00, got %s", price)
		}
	})

	t.Run("rounds half away from zero", func(t *testing.T) {
		price := QuantizePrice(d(t, "1.005"), d(t, "0.01"))
		if !price.Equal(d(t, "1.01")) {
			t.Fatalf("expected 1.01, got %s", price)
		}
	})

	t.Run("whole-unit increments round to integers", func(t *testing.T) {
		price := QuantizePrice(d(t, "1834.17"), d(t, "1"))
		if !price.Equal(d(t, "1834")) {
			t.Fatalf("expected 1834, got %s", price)
		}
	})

	t.Run("is always a multiple of the increment", func(t *testing.T) {
		for _, raw := range []string{"50000.123456", "0.004999", "73.105"} {
			price := QuantizePrice(d(t, raw), d(t, "0.01"))
			if !price.Mod(d(t, "0.01")).IsZero() {
				t.Fatalf("price %s is not a multiple of 0.01", price)
			}
		}
	})
}

func TestLimitOrderTerms(t *testing.T) {
	t.Parallel()

	t.Run("buy derives price from spot and multiplier", func(t *testing.T) {
		terms, err := LimitOrderTerms(
			d(t, "100"), types.OrderSideBuy, d(t, "50000"), nil, d(t, "0.995"), btcUsdcDetails(t))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !terms.Price.Equal(d(t, "49750.00")) {
			t.Fatalf("expected price 49750.00, got %s", terms.Price)
		}
		if !terms.BaseSize.Equal(d(t, "0.00201")) {
			t.Fatalf("expected size 0.00201, got %s", terms.BaseSize)
		}
		if terms.BaseSize.Mul(terms.Price).GreaterThan(d(t, "100")) {
			t.Fatalf("buy notional %s exceeds budget", terms.BaseSize.Mul(terms.Price))
		}
	})

	t.Run("explicit limit price wins over multiplier", func(t *testing.T) {
		limitPrice := d(t, "48000")
		terms, err := LimitOrderTerms(
			d(t, "100"), types.OrderSideBuy, d(t, "50000"), &limitPrice, d(t, "0.5"), btcUsdcDetails(t))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !terms.Price.Equal(d(t, "48000.00")) {
			t.Fatalf("expected price 48000.00, got %s", terms.Price)
		}
	})

	t.Run("sell sizes the fiat amount at the adjusted price", func(t *testing.T) {
		details := btcUsdcDetails(t)
		terms, err := LimitOrderTerms(
			d(t, "100"), types.OrderSideSell, d(t, "50000"), nil, d(t, "1.005"), details)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !terms.Price.Equal(d(t, "50250.00")) {
			t.Fatalf("expected price 50250.00, got %s", terms.Price)
		}
		if !terms.BaseSize.Mod(details.BaseIncrement).IsZero() {
			t.Fatalf("size %s is not a multiple of %s", terms.BaseSize, details.BaseIncrement)
		}
		// notional within one base increment of the fiat target
		diff := terms.BaseSize.Mul(terms.Price).Sub(d(t, "100")).Abs()
		if diff.GreaterThan(details.BaseIncrement.Mul(terms.Price)) {
			t.Fatalf("sell notional off by %s, more than one increment", diff)
		}
	})

	t.Run("rejects non-positive adjusted price", func(t *testing.T) {
		if _, err := LimitOrderTerms(
			d(t, "100"), types.OrderSideBuy, decimal.Zero, nil, d(t, "0.995"), btcUsdcDetails(t)); err == nil {
			t.Fatalf("expected error for zero adjusted price")
		}
	})
}
