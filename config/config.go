package config

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"cbtrader/pkg/types"
)

type Config struct {
	Trading  *TradingConfig  `yaml:"trading"`
	Exchange *ExchangeConfig `yaml:"exchange"`
	Journal  *JournalConfig  `yaml:"journal"`
	Server   *ServerConfig   `yaml:"server"`
}

// TradingConfig holds the pricing defaults injected into the order service.
// Values are decimal strings so no precision is lost in transit.
type TradingConfig struct {
	BuyPriceMultiplier  string `yaml:"buyPriceMultiplier"`
	SellPriceMultiplier string `yaml:"sellPriceMultiplier"`
	MakerFeeRate        string `yaml:"makerFeeRate"`
	TakerFeeRate        string `yaml:"takerFeeRate"`
}

type ExchangeConfig struct {
	EnvPrefix           string `yaml:"envPrefix"` // credentials read from <prefix>_API_KEY / <prefix>_API_SECRET
	BaseUrl             string `yaml:"baseUrl"`
	ProductCacheSeconds int    `yaml:"productCacheSeconds"`
}

type JournalConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Dir      string `yaml:"dir"`
	S3Bucket string `yaml:"s3Bucket"` // optional mirror
	S3Prefix string `yaml:"s3Prefix"`
	S3Region string `yaml:"s3Region"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

func LoadConfig(envName types.EnvName) (*Config, error) {
	// read YAML file
	var data []byte
	var err error

	yamlFiles := map[types.EnvName]string{
		types.EnvLocal: "cbtrader.yaml",
		types.EnvDev:   "cbtrader.dev.yaml",
		types.EnvProd:  "cbtrader.prod.yaml",
	}
	fileName := yamlFiles[envName]
	data, err = os.ReadFile(fileName)
	if err != nil {
		log.Fatalf("fail to load config file '%s': %v", fileName, err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		log.Fatalf("fail to decode config file '%v': %v", config, err)
	}
	return &config, nil
}
