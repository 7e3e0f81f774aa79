package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ComponentAuditLog is an append-only snapshot of the component fields as
// they were submitted in one ingestion call. Never mutated or deleted.
type ComponentAuditLog struct {
	ID            int            `gorm:"primaryKey;autoIncrement" json:"id"`
	ComponentID   int            `gorm:"column:component_id;index" json:"component_id"`
	CmCode        *string        `gorm:"column:cm_code" json:"cm_code"`
	SkuCode       *string        `gorm:"column:sku_code" json:"sku_code"`
	ComponentCode *string        `gorm:"column:component_code" json:"component_code"`
	Version       *int           `gorm:"column:version" json:"version"`
	Snapshot      datatypes.JSON `gorm:"type:jsonb;column:snapshot" json:"snapshot"`
	CreatedBy     *string        `gorm:"column:created_by" json:"created_by"`
	CreatedDate   time.Time      `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (ComponentAuditLog) TableName() string { return "sdp_component_details_auditlog" }
