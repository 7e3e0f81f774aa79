package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/packtrace/sdp-backend/internal/domain"
)

type MasterDataRepo interface {
	GetMaterialTypes(ctx context.Context) ([]domain.MaterialType, error)
	GetUoms(ctx context.Context) ([]domain.ComponentUom, error)
	GetPackagingLevels(ctx context.Context) ([]domain.ComponentPackagingLevel, error)
	GetPackagingMaterials(ctx context.Context) ([]domain.ComponentPackagingMaterial, error)
}

type masterDataRepo struct {
	db *gorm.DB
}

func NewMasterDataRepo(db *gorm.DB) MasterDataRepo {
	return &masterDataRepo{db: db}
}

func (r *masterDataRepo) GetMaterialTypes(ctx context.Context) ([]domain.MaterialType, error) {
	var rows []domain.MaterialType
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("item_name").Find(&rows).Error
	return rows, err
}

func (r *masterDataRepo) GetUoms(ctx context.Context) ([]domain.ComponentUom, error) {
	var rows []domain.ComponentUom
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("item_name").Find(&rows).Error
	return rows, err
}

func (r *masterDataRepo) GetPackagingLevels(ctx context.Context) ([]domain.ComponentPackagingLevel, error) {
	var rows []domain.ComponentPackagingLevel
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("item_name").Find(&rows).Error
	return rows, err
}

func (r *masterDataRepo) GetPackagingMaterials(ctx context.Context) ([]domain.ComponentPackagingMaterial, error) {
	var rows []domain.ComponentPackagingMaterial
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("item_name").Find(&rows).Error
	return rows, err
}
