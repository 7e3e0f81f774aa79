package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

type MappingRepo interface {
	Create(ctx context.Context, mapping *domain.ComponentMapping) error
	ExistsByNaturalKey(ctx context.Context, cmCode, skuCode, componentCode string, validFrom, validTo *time.Time) (bool, error)
	GetByCmAndSku(ctx context.Context, cmCode, skuCode string) ([]domain.ComponentMapping, error)
	GetByCmCode(ctx context.Context, cmCode string) ([]domain.ComponentMapping, error)
}

type mappingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMappingRepo(db *gorm.DB, baseLog *logger.Logger) MappingRepo {
	return &mappingRepo{db: db, log: baseLog.With("repo", "MappingRepo")}
}

func (r *mappingRepo) Create(ctx context.Context, mapping *domain.ComponentMapping) error {
	return r.db.WithContext(ctx).Create(mapping).Error
}

func (r *mappingRepo) ExistsByNaturalKey(ctx context.Context, cmCode, skuCode, componentCode string, validFrom, validTo *time.Time) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.ComponentMapping{}).
		Where("cm_code = ? AND sku_code = ? AND component_code = ? AND is_active = ?",
			cmCode, skuCode, componentCode, true)
	if validFrom != nil {
		query = query.Where("component_valid_from = ?", *validFrom)
	} else {
		query = query.Where("component_valid_from IS NULL")
	}
	if validTo != nil {
		query = query.Where("component_valid_to = ?", *validTo)
	} else {
		query = query.Where("component_valid_to IS NULL")
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *mappingRepo) GetByCmAndSku(ctx context.Context, cmCode, skuCode string) ([]domain.ComponentMapping, error) {
	var mappings []domain.ComponentMapping
	err := r.db.WithContext(ctx).
		Where("cm_code = ? AND sku_code = ?", cmCode, skuCode).
		Order("component_code, version, component_packaging_type_id").
		Find(&mappings).Error
	return mappings, err
}

func (r *mappingRepo) GetByCmCode(ctx context.Context, cmCode string) ([]domain.ComponentMapping, error) {
	var mappings []domain.ComponentMapping
	err := r.db.WithContext(ctx).
		Where("cm_code = ?", cmCode).
		Order("sku_code, component_code, version").
		Find(&mappings).Error
	return mappings, err
}
