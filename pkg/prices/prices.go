package prices

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"cbtrader/pkg/types"
)

// ProductReader is the upstream product endpoint, normally the cb client.
type ProductReader interface {
	GetProduct(ctx context.Context, productId string) (*types.ProductSnapshot, error)
}

type cachedDetails struct {
	details   types.ProductDetails
	fetchedAt time.Time
}

// Service reads spot prices and product metadata. Spot prices are always
// fetched fresh; increments change rarely, so product details are cached
// with a TTL. Safe for concurrent use.
type Service struct {
	reader ProductReader
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	details map[string]cachedDetails
}

func NewService(reader ProductReader, ttl time.Duration) *Service {
	return &Service{
		reader:  reader,
		ttl:     ttl,
		now:     time.Now,
		details: make(map[string]cachedDetails),
	}
}

// GetSpotPrice returns the current price for a product. The piggybacked
// product details refresh the cache for free.
func (s *Service) GetSpotPrice(ctx context.Context, productId string) (decimal.Decimal, error) {
	snapshot, err := s.reader.GetProduct(ctx, productId)
	if err != nil {
		return decimal.Zero, err
	}
	s.store(productId, snapshot.ProductDetails)
	return snapshot.Price, nil
}

// GetProductDetails returns the quantization increments for a product,
// served from cache while fresh.
func (s *Service) GetProductDetails(ctx context.Context, productId string) (*types.ProductDetails, error) {
	s.mu.RLock()
	cached, ok := s.details[productId]
	s.mu.RUnlock()
	if ok && s.now().Sub(cached.fetchedAt) < s.ttl {
		details := cached.details
		return &details, nil
	}

	snapshot, err := s.reader.GetProduct(ctx, productId)
	if err != nil {
		return nil, err
	}
	s.store(productId, snapshot.ProductDetails)
	details := snapshot.ProductDetails
	return &details, nil
}

func (s *Service) store(productId string, details types.ProductDetails) {
	s.mu.Lock()
	s.details[productId] = cachedDetails{details: details, fetchedAt: s.now()}
	s.mu.Unlock()
}
