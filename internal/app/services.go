package app

import (
	"github.com/redis/go-redis/v9"

	"github.com/packtrace/sdp-backend/internal/platform/azureblob"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/services"
)

type Services struct {
	Upload     *services.UploadService
	Ingest     *services.IngestService
	Component  *services.ComponentService
	Sku        *services.SkuService
	MasterData *services.MasterDataService
	Export     *services.ExportService
}

func wireServices(log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	// A failed blob init is survivable: the upload service degrades to
	// pending-upload URLs until storage comes back.
	blob, err := azureblob.New(log, azureblob.LoadConfigFromEnv())
	if err != nil {
		log.Warn("Blob storage unavailable, evidence uploads will be recorded as pending", "error", err)
		blob = nil
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	upload := services.NewUploadService(log, blob)
	masterData := services.NewMasterDataService(log, r.MasterData, r.Period, cache, cfg.MasterDataTTL)

	return Services{
		Upload:     upload,
		Ingest:     services.NewIngestService(log, r.Component, r.Mapping, r.Evidence, r.AuditLog, r.Period, upload, cfg.IngestStrategy),
		Component:  services.NewComponentService(log, r.Component, r.Mapping, r.Evidence, r.AuditLog, r.Sku, masterData),
		Sku:        services.NewSkuService(log, r.Sku, r.Component, r.Period, cfg.SkuInsertStrategy),
		MasterData: masterData,
		Export:     services.NewExportService(log, r.Sku, r.Mapping),
	}
}
