package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"cbtrader/config"
	"cbtrader/pkg/exchange/cb"
	"cbtrader/pkg/journal"
	"cbtrader/pkg/orders"
	"cbtrader/pkg/prices"
	"cbtrader/pkg/s3client"
	"cbtrader/pkg/sizing"
)

// Bootstrap builds the order service from config: exchange client, price
// service, optional journal.
func Bootstrap(config config.Config) (*orders.OrderService, error) {
	log.Info("bootstrapping...")

	if config.Exchange == nil {
		return nil, errors.New("exchange config is required")
	}
	client, err := cb.New(config.Exchange)
	if err != nil {
		return nil, fmt.Errorf("fail to init exchange client: %w", err)
	}
	log.Infof("exchange client registered: %v", config.Exchange.EnvPrefix)

	ttl := time.Duration(config.Exchange.ProductCacheSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	priceService := prices.NewService(client, ttl)

	tradingConfig, err := loadTradingConfig(config.Trading)
	if err != nil {
		return nil, err
	}
	orderService := orders.NewOrderService(client, priceService, tradingConfig)

	if config.Journal != nil && config.Journal.Enabled {
		dir := config.Journal.Dir
		if dir == "" {
			dir = "journal"
		}
		orderJournal, err := journal.Open(dir)
		if err != nil {
			return nil, fmt.Errorf("fail to open order journal: %w", err)
		}
		if config.Journal.S3Bucket != "" {
			s3 := s3client.Init(os.Getenv("AWS_ACCESS_KEY"), os.Getenv("AWS_SECRET_KEY"), config.Journal.S3Region)
			orderJournal.UseUploader(journal.NewS3Uploader(s3, config.Journal.S3Bucket), config.Journal.S3Prefix)
			log.Infof("journal mirroring to s3 bucket '%v'", config.Journal.S3Bucket)
		}
		orderService.UseRecorder(orderJournal)
		log.Infof("order journal enabled at '%v'", dir)
	}

	return orderService, nil
}

func loadTradingConfig(tradingConfig *config.TradingConfig) (sizing.Config, error) {
	cfg := sizing.DefaultConfig()
	if tradingConfig == nil {
		return cfg, nil
	}
	fields := []struct {
		value  string
		target *decimal.Decimal
		name   string
	}{
		{tradingConfig.BuyPriceMultiplier, &cfg.BuyPriceMultiplier, "buyPriceMultiplier"},
		{tradingConfig.SellPriceMultiplier, &cfg.SellPriceMultiplier, "sellPriceMultiplier"},
		{tradingConfig.MakerFeeRate, &cfg.MakerFeeRate, "makerFeeRate"},
		{tradingConfig.TakerFeeRate, &cfg.TakerFeeRate, "takerFeeRate"},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		parsed, err := decimal.NewFromString(field.value)
		if err != nil {
			return sizing.Config{}, fmt.Errorf("bad trading config %s %q: %w", field.name, field.value, err)
		}
		*field.target = parsed
	}
	return cfg, nil
}
