package orders

import "errors"

// ErrMissingMarketData marks a placement that failed before submission
// because the spot price or product metadata could not be obtained. Callers
// can detect it with errors.Is.
var ErrMissingMarketData = errors.New("market data unavailable")
