package app

import (
	"github.com/packtrace/sdp-backend/internal/handlers"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

type Handlers struct {
	Component  *handlers.ComponentHandler
	Sku        *handlers.SkuHandler
	MasterData *handlers.MasterDataHandler
	Export     *handlers.ExportHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Component:  handlers.NewComponentHandler(log, services.Ingest, services.Component, services.Sku),
		Sku:        handlers.NewSkuHandler(log, services.Sku),
		MasterData: handlers.NewMasterDataHandler(log, services.MasterData),
		Export:     handlers.NewExportHandler(log, services.Export),
	}
}
