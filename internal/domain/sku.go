package domain

import (
	"time"
)

// SkuDetail is one sellable unit owned by a contract manufacturer.
type SkuDetail struct {
	ID                   int       `gorm:"primaryKey;autoIncrement" json:"id"`
	SkuCode              string    `gorm:"column:sku_code;index" json:"sku_code"`
	SkuDescription       string    `gorm:"column:sku_description" json:"sku_description"`
	CmCode               *string   `gorm:"column:cm_code;index" json:"cm_code"`
	CmDescription        *string   `gorm:"column:cm_description" json:"cm_description"`
	SkuReference         *string   `gorm:"column:sku_reference" json:"sku_reference"`
	FormulationReference *string   `gorm:"column:formulation_reference" json:"formulation_reference"`
	Site                 *string   `gorm:"column:site" json:"site"`
	SkuType              *string   `gorm:"column:skutype" json:"skutype"`
	BulkExpert           *string   `gorm:"column:bulk_expert" json:"bulk_expert"`
	Period               *string   `gorm:"column:period" json:"period"`
	PurchasedQuantity    *float64  `gorm:"column:purchased_quantity" json:"purchased_quantity"`
	DualSource           *string   `gorm:"column:dual_source" json:"dual_source"`
	IsActive             bool      `gorm:"column:is_active" json:"is_active"`
	CreatedBy            *string   `gorm:"column:created_by" json:"created_by"`
	CreatedDate          time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (SkuDetail) TableName() string { return "sdp_skudetails" }
