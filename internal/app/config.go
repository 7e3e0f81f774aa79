package app

import (
	"strings"
	"time"

	"github.com/packtrace/sdp-backend/internal/platform/envutil"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/services"
)

type Config struct {
	Port         string
	AllowOrigins []string

	APIToken  string
	JWTSecret string

	IngestStrategy    services.IngestStrategy
	SkuInsertStrategy services.SkuInsertStrategy

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MasterDataTTL time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:              envutil.String("PORT", "8080"),
		APIToken:          envutil.String("API_TOKEN", ""),
		JWTSecret:         envutil.String("JWT_SECRET_KEY", ""),
		IngestStrategy:    services.ParseIngestStrategy(envutil.String("COMPONENT_INGEST_STRATEGY", "")),
		SkuInsertStrategy: services.ParseSkuInsertStrategy(envutil.String("SKU_INSERT_STRATEGY", "")),
		RedisAddr:         envutil.String("REDIS_ADDR", ""),
		RedisPassword:     envutil.String("REDIS_PASSWORD", ""),
		RedisDB:           envutil.Int("REDIS_DB", 0),
		MasterDataTTL:     time.Duration(envutil.Int("MASTER_DATA_CACHE_TTL", 600)) * time.Second,
	}
	if origins := envutil.String("CORS_ALLOW_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, trimmed)
			}
		}
	}
	if cfg.APIToken == "" && cfg.JWTSecret == "" {
		log.Warn("Neither API_TOKEN nor JWT_SECRET_KEY is set; all protected routes will reject requests")
	}
	log.Info("Config loaded",
		"ingest_strategy", string(cfg.IngestStrategy),
		"sku_insert_strategy", string(cfg.SkuInsertStrategy),
		"redis_cache", cfg.RedisAddr != "")
	return cfg
}
