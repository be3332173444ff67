package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	JWTSecret        string
	JWTUser          string
	JWTPassword      string
	FetchTimeout     time.Duration
	CacheTTL         time.Duration
	TLSCertFile      string
	TLSKeyFile       string
	MarketplaceHost  string
	MarketplaceToken string
	OfferLimit       int
}

func Load() *Config {
	v := viper.New()

	v.SetDefault("auth_user", "demo")
	v.SetDefault("auth_pass", "demo123")
	v.SetDefault("fetch_timeout", "10s")
	v.SetDefault("cache_ttl", "30s")
	v.SetDefault("offer_limit", 50)

	v.SetDefault("marketplace_host", "https://api.resale-marketplace.example")

	if path := os.Getenv("PRICING_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		// Fallback to conventional locations for local dev
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pricing") // add the container path
	}

	if err := v.ReadInConfig(); err != nil {
		log.Printf("no config file found, using defaults + env vars: %v", err)
	}

	v.AutomaticEnv()

	to, err := time.ParseDuration(v.GetString("fetch_timeout"))
	if err != nil {
		log.Fatalf("bad fetch_timeout: %v", err)
	}
	ct, err := time.ParseDuration(v.GetString("cache_ttl"))
	if err != nil {
		log.Fatalf("bad cache_ttl: %v", err)
	}

	return &Config{
		JWTSecret:        v.GetString("jwt_secret"),
		JWTUser:          v.GetString("auth_user"),
		JWTPassword:      v.GetString("auth_pass"),
		FetchTimeout:     to,
		CacheTTL:         ct,
		TLSCertFile:      os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:       os.Getenv("TLS_KEY_FILE"),
		MarketplaceHost:  v.GetString("marketplace_host"),
		MarketplaceToken: v.GetString("marketplace_token"),
		OfferLimit:       v.GetInt("offer_limit"),
	}
}
