package app

import (
	"gorm.io/gorm"

	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/repos"
)

type Repos struct {
	Component  repos.ComponentRepo
	Mapping    repos.MappingRepo
	Evidence   repos.EvidenceRepo
	AuditLog   repos.AuditLogRepo
	Sku        repos.SkuRepo
	Period     repos.PeriodRepo
	MasterData repos.MasterDataRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Component:  repos.NewComponentRepo(db, log),
		Mapping:    repos.NewMappingRepo(db, log),
		Evidence:   repos.NewEvidenceRepo(db, log),
		AuditLog:   repos.NewAuditLogRepo(db, log),
		Sku:        repos.NewSkuRepo(db, log),
		Period:     repos.NewPeriodRepo(db, log),
		MasterData: repos.NewMasterDataRepo(db),
	}
}
