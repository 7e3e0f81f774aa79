package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/apierr"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
	"github.com/packtrace/sdp-backend/internal/repos"
)

const masterDataCacheKey = "sdp:master-data"

type MasterDataBundle struct {
	Periods            []domain.Period                     `json:"periods"`
	MaterialTypes      []domain.MaterialType               `json:"material_types"`
	Uoms               []domain.ComponentUom               `json:"uoms"`
	PackagingLevels    []domain.ComponentPackagingLevel    `json:"packaging_levels"`
	PackagingMaterials []domain.ComponentPackagingMaterial `json:"packaging_materials"`
}

// MasterDataService serves the reference-table bundle. Reads go through a
// redis cache when a client is configured; a nil client or any cache error
// falls back to the database.
type MasterDataService struct {
	log     *logger.Logger
	repo    repos.MasterDataRepo
	periods repos.PeriodRepo
	cache   *redis.Client
	ttl     time.Duration
}

func NewMasterDataService(log *logger.Logger, repo repos.MasterDataRepo, periods repos.PeriodRepo, cache *redis.Client, ttl time.Duration) *MasterDataService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MasterDataService{
		log:     log.With("service", "MasterDataService"),
		repo:    repo,
		periods: periods,
		cache:   cache,
		ttl:     ttl,
	}
}

func (s *MasterDataService) GetBundle(ctx context.Context) (*MasterDataBundle, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, masterDataCacheKey).Bytes()
		if err == nil {
			var bundle MasterDataBundle
			if err := json.Unmarshal(raw, &bundle); err == nil {
				return &bundle, nil
			}
			s.log.Warn("Discarding malformed master-data cache entry")
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn("Master-data cache read failed", "error", err)
		}
	}

	bundle, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(bundle); err == nil {
			if err := s.cache.Set(ctx, masterDataCacheKey, raw, s.ttl).Err(); err != nil {
				s.log.Warn("Master-data cache write failed", "error", err)
			}
		}
	}
	return bundle, nil
}

func (s *MasterDataService) load(ctx context.Context) (*MasterDataBundle, error) {
	periods, err := s.periods.GetActive(ctx)
	if err != nil {
		return nil, apierr.Persistence("loading periods", err)
	}
	materialTypes, err := s.repo.GetMaterialTypes(ctx)
	if err != nil {
		return nil, apierr.Persistence("loading material types", err)
	}
	uoms, err := s.repo.GetUoms(ctx)
	if err != nil {
		return nil, apierr.Persistence("loading uoms", err)
	}
	levels, err := s.repo.GetPackagingLevels(ctx)
	if err != nil {
		return nil, apierr.Persistence("loading packaging levels", err)
	}
	materials, err := s.repo.GetPackagingMaterials(ctx)
	if err != nil {
		return nil, apierr.Persistence("loading packaging materials", err)
	}
	return &MasterDataBundle{
		Periods:            periods,
		MaterialTypes:      materialTypes,
		Uoms:               uoms,
		PackagingLevels:    levels,
		PackagingMaterials: materials,
	}, nil
}

// Invalidate drops the cached bundle after reference-table edits.
func (s *MasterDataService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, masterDataCacheKey).Err(); err != nil {
		s.log.Warn("Master-data cache invalidation failed", "error", err)
	}
}
