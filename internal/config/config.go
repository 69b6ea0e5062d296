package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type SettlementConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	LedgerDB   `yaml:"ledger_db"`
	LogConfig  `yaml:"log_config"`
	Kafka      `yaml:"kafka"`
	Gateway    `yaml:"gateway"`
	Engine     `yaml:"engine"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LedgerDB struct {
	Dsn           string `yaml:"dsn"`
	MigrationPath string `yaml:"migration_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type Kafka struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Gateway struct {
	BaseURL   string `yaml:"base_url"`
	SecretKey string `yaml:"secret_key" env:"GATEWAY_SECRET_KEY"`
}

type Engine struct {
	MaxSlotsPerOrder int32         `yaml:"max_slots_per_order" env-default:"10"`
	ReservationTTL   time.Duration `yaml:"reservation_ttl" env-default:"15m"`
	BuyerFeeBps      int64         `yaml:"buyer_fee_bps" env-default:"200"`
	CommissionBps    int64         `yaml:"commission_bps" env-default:"500"`
	ReaperInterval   time.Duration `yaml:"reaper_interval" env-default:"1m"`
	StaleIntentAge   time.Duration `yaml:"stale_intent_age" env-default:"30m"`
}

func MustLoad() *SettlementConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
