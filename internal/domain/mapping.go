package domain

import (
	"time"
)

// ComponentMapping associates a component with a manufacturer and SKU for a
// version/validity window. Many mappings may reference one component code;
// rows are only deduplicated when the dedupe-mapping ingest strategy is
// selected.
type ComponentMapping struct {
	ID                       int        `gorm:"primaryKey;autoIncrement" json:"id"`
	CmCode                   *string    `gorm:"column:cm_code;index" json:"cm_code"`
	SkuCode                  *string    `gorm:"column:sku_code;index" json:"sku_code"`
	ComponentCode            *string    `gorm:"column:component_code;index" json:"component_code"`
	Version                  *int       `gorm:"column:version" json:"version"`
	ComponentPackagingTypeID *string    `gorm:"column:component_packaging_type_id" json:"component_packaging_type_id"`
	PeriodID                 *int       `gorm:"column:period_id" json:"period_id"`
	ComponentValidFrom       *time.Time `gorm:"column:component_valid_from" json:"component_valid_from"`
	ComponentValidTo         *time.Time `gorm:"column:component_valid_to" json:"component_valid_to"`
	CreatedBy                *string    `gorm:"column:created_by" json:"created_by"`
	CreatedAt                time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	IsActive                 bool       `gorm:"column:is_active" json:"is_active"`
}

func (ComponentMapping) TableName() string { return "sdp_sku_component_mapping_details" }
