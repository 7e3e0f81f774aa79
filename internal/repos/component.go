package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

type ComponentRepo interface {
	Create(ctx context.Context, component *domain.ComponentDetail) error
	GetActiveByCode(ctx context.Context, componentCode string) (*domain.ComponentDetail, error)
	GetAllByCode(ctx context.Context, componentCode string) ([]domain.ComponentDetail, error)
	GetByCodes(ctx context.Context, componentCodes []string) ([]domain.ComponentDetail, error)
	GetByCmCode(ctx context.Context, cmCode string) ([]domain.ComponentDetail, error)
	ExistsByNaturalKey(ctx context.Context, cmCode, skuCode, componentCode string, validFrom, validTo *time.Time) (bool, error)
	GetBySkuReference(ctx context.Context, cmCode, skuCode string) ([]domain.ComponentDetail, error)
	SetActive(ctx context.Context, id int, active bool) (*domain.ComponentDetail, error)
	RemoveSkuFromAll(ctx context.Context, skuCode string) ([]domain.ComponentDetail, error)
	AddSkuToIDs(ctx context.Context, skuCode string, ids []int) ([]domain.ComponentDetail, error)
}

type componentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewComponentRepo(db *gorm.DB, baseLog *logger.Logger) ComponentRepo {
	return &componentRepo{db: db, log: baseLog.With("repo", "ComponentRepo")}
}

func (r *componentRepo) Create(ctx context.Context, component *domain.ComponentDetail) error {
	return r.db.WithContext(ctx).Create(component).Error
}

func (r *componentRepo) GetActiveByCode(ctx context.Context, componentCode string) (*domain.ComponentDetail, error) {
	var component domain.ComponentDetail
	err := r.db.WithContext(ctx).
		Where("component_code = ? AND is_active = ?", componentCode, true).
		Order("id").
		First(&component).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *componentRepo) GetAllByCode(ctx context.Context, componentCode string) ([]domain.ComponentDetail, error) {
	var components []domain.ComponentDetail
	err := r.db.WithContext(ctx).
		Where("component_code = ?", componentCode).
		Order("id").
		Find(&components).Error
	return components, err
}

func (r *componentRepo) GetByCodes(ctx context.Context, componentCodes []string) ([]domain.ComponentDetail, error) {
	var components []domain.ComponentDetail
	if len(componentCodes) == 0 {
		return components, nil
	}
	err := r.db.WithContext(ctx).
		Where("component_code IN ?", componentCodes).
		Order("id").
		Find(&components).Error
	return components, err
}

func (r *componentRepo) GetByCmCode(ctx context.Context, cmCode string) ([]domain.ComponentDetail, error) {
	var components []domain.ComponentDetail
	err := r.db.WithContext(ctx).
		Where("cm_code = ? AND is_active = ?", cmCode, true).
		Order("component_code").
		Find(&components).Error
	return components, err
}

func (r *componentRepo) ExistsByNaturalKey(ctx context.Context, cmCode, skuCode, componentCode string, validFrom, validTo *time.Time) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.ComponentDetail{}).
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

// GetBySkuReference matches components whose sku_code column contains the
// given code as one element of a comma-separated list: exact, prefix,
// suffix, or middle.
func (r *componentRepo) GetBySkuReference(ctx context.Context, cmCode, skuCode string) ([]domain.ComponentDetail, error) {
	var components []domain.ComponentDetail
	err := r.db.WithContext(ctx).
		Where("cm_code = ? AND is_active = ?", cmCode, true).
		Where("sku_code = ? OR sku_code LIKE ? OR sku_code LIKE ? OR sku_code LIKE ?",
			skuCode, skuCode+",%", "%,"+skuCode+",%", "%,"+skuCode).
		Order("component_code").
		Find(&components).Error
	return components, err
}

func (r *componentRepo) SetActive(ctx context.Context, id int, active bool) (*domain.ComponentDetail, error) {
	var component domain.ComponentDetail
	err := r.db.WithContext(ctx).First(&component, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&component).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	component.IsActive = active
	return &component, nil
}

// RemoveSkuFromAll strips skuCode out of every component's comma-separated
// sku_code list. SQL string surgery would differ per dialect, so the edit
// happens in Go over the matching rows.
func (r *componentRepo) RemoveSkuFromAll(ctx context.Context, skuCode string) ([]domain.ComponentDetail, error) {
	var matches []domain.ComponentDetail
	err := r.db.WithContext(ctx).
		Where("sku_code = ? OR sku_code LIKE ? OR sku_code LIKE ? OR sku_code LIKE ?",
			skuCode, skuCode+",%", "%,"+skuCode+",%", "%,"+skuCode).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	var updated []domain.ComponentDetail
	for i := range matches {
		component := &matches[i]
		if component.SkuCode == nil {
			continue
		}
		next := removeListElement(*component.SkuCode, skuCode)
		if next == *component.SkuCode {
			continue
		}
		if err := r.db.WithContext(ctx).Model(component).Update("sku_code", next).Error; err != nil {
			return updated, err
		}
		component.SkuCode = &next
		updated = append(updated, *component)
	}
	return updated, nil
}

func (r *componentRepo) AddSkuToIDs(ctx context.Context, skuCode string, ids []int) ([]domain.ComponentDetail, error) {
	var updated []domain.ComponentDetail
	if len(ids) == 0 {
		return updated, nil
	}
	var components []domain.ComponentDetail
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&components).Error; err != nil {
		return nil, err
	}
	for i := range components {
		component := &components[i]
		current := ""
		if component.SkuCode != nil {
			current = *component.SkuCode
		}
		next := addListElement(current, skuCode)
		if next == current {
			updated = append(updated, *component)
			continue
		}
		if err := r.db.WithContext(ctx).Model(component).Update("sku_code", next).Error; err != nil {
			return updated, err
		}
		component.SkuCode = &next
		updated = append(updated, *component)
	}
	return updated, nil
}

func removeListElement(list, element string) string {
	parts := strings.Split(list, ",")
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != element {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, ",")
}

func addListElement(list, element string) string {
	if list == "" {
		return element
	}
	for _, p := range strings.Split(list, ",") {
		if strings.TrimSpace(p) == element {
			return list
		}
	}
	return list + "," + element
}
