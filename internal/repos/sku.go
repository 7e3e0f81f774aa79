package repos

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

// SkuDescription is the trimmed projection served by the descriptions
// endpoint.
type SkuDescription struct {
	SkuCode        string  `json:"sku_code"`
	SkuDescription string  `json:"sku_description"`
	CmCode         *string `json:"cm_code"`
	CmDescription  *string `json:"cm_description"`
}

type SkuRepo interface {
	Create(ctx context.Context, sku *domain.SkuDetail) error
	GetAll(ctx context.Context) ([]domain.SkuDetail, error)
	GetByCmCode(ctx context.Context, cmCode string) ([]domain.SkuDetail, error)
	GetByCode(ctx context.Context, skuCode string) (*domain.SkuDetail, error)
	ExistsByCode(ctx context.Context, skuCode string) (bool, error)
	ExistsByNormalizedDescription(ctx context.Context, description string) (bool, error)
	GetSimilarDescriptions(ctx context.Context, description string) ([]SkuDescription, error)
	GetAllDescriptions(ctx context.Context) ([]SkuDescription, error)
	UpdateByCode(ctx context.Context, skuCode string, fields map[string]interface{}) (*domain.SkuDetail, error)
	SetActiveByID(ctx context.Context, id int, active bool) (*domain.SkuDetail, error)
}

type skuRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkuRepo(db *gorm.DB, baseLog *logger.Logger) SkuRepo {
	return &skuRepo{db: db, log: baseLog.With("repo", "SkuRepo")}
}

func (r *skuRepo) Create(ctx context.Context, sku *domain.SkuDetail) error {
	return r.db.WithContext(ctx).Create(sku).Error
}

func (r *skuRepo) GetAll(ctx context.Context) ([]domain.SkuDetail, error) {
	var skus []domain.SkuDetail
	err := r.db.WithContext(ctx).Order("sku_code").Find(&skus).Error
	return skus, err
}

func (r *skuRepo) GetByCmCode(ctx context.Context, cmCode string) ([]domain.SkuDetail, error) {
	var skus []domain.SkuDetail
	err := r.db.WithContext(ctx).
		Where("cm_code = ?", cmCode).
		Order("sku_code").
		Find(&skus).Error
	return skus, err
}

func (r *skuRepo) GetByCode(ctx context.Context, skuCode string) (*domain.SkuDetail, error) {
	var sku domain.SkuDetail
	err := r.db.WithContext(ctx).Where("sku_code = ?", skuCode).First(&sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

func (r *skuRepo) ExistsByCode(ctx context.Context, skuCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.SkuDetail{}).
		Where("sku_code = ?", skuCode).
		Count(&count).Error
	return count > 0, err
}

// ExistsByNormalizedDescription compares case-insensitively on the trimmed
// description.
func (r *skuRepo) ExistsByNormalizedDescription(ctx context.Context, description string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.SkuDetail{}).
		Where("LOWER(TRIM(sku_description)) = ?", normalizeDescription(description)).
		Count(&count).Error
	return count > 0, err
}

func (r *skuRepo) GetSimilarDescriptions(ctx context.Context, description string) ([]SkuDescription, error) {
	var rows []domain.SkuDetail
	err := r.db.WithContext(ctx).
		Where("LOWER(TRIM(sku_description)) LIKE ?", "%"+normalizeDescription(description)+"%").
		Order("sku_code").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDescriptions(rows), nil
}

func (r *skuRepo) GetAllDescriptions(ctx context.Context) ([]SkuDescription, error) {
	var rows []domain.SkuDetail
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sku_code").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDescriptions(rows), nil
}

func (r *skuRepo) UpdateByCode(ctx context.Context, skuCode string, fields map[string]interface{}) (*domain.SkuDetail, error) {
	sku, err := r.GetByCode(ctx, skuCode)
	if err != nil || sku == nil {
		return sku, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(sku).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByCode(ctx, skuCode)
}

func (r *skuRepo) SetActiveByID(ctx context.Context, id int, active bool) (*domain.SkuDetail, error) {
	var sku domain.SkuDetail
	err := r.db.WithContext(ctx).First(&sku, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&sku).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	sku.IsActive = active
	return &sku, nil
}

func normalizeDescription(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}

func toDescriptions(rows []domain.SkuDetail) []SkuDescription {
	out := make([]SkuDescription, 0, len(rows))
	for _, row := range rows {
		out = append(out, SkuDescription{
			SkuCode:        row.SkuCode,
			SkuDescription: row.SkuDescription,
			CmCode:         row.CmCode,
			CmDescription:  row.CmDescription,
		})
	}
	return out
}
