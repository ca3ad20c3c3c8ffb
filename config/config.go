// Package config reads service configuration from the environment. A .env
// file is loaded by main before this runs.
package config

import (
	"os"
)

type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	RedisAddr  string
	JWTSecret  []byte
	AdminEmail string
	// ReceiptSecret signs the QR payload on booking receipts.
	ReceiptSecret []byte
}

func FromEnv() Config {
	cfg := Config{
		Port:          getenv("PORT", ":8080"),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getenv("MONGO_DB", "playpaldb"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:     []byte(getenv("JWT_SECRET", "dev_only_secret")),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@playpal.com"),
		ReceiptSecret: []byte(getenv("RECEIPT_SECRET", "dev_only_receipt_secret")),
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
