package domain

// Reference tables served by the master-data bundle endpoint. Rows are
// seeded out of band; this service only reads them.

type MaterialType struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemName string `gorm:"column:item_name" json:"item_name"`
	IsActive bool   `gorm:"column:is_active" json:"is_active"`
}

func (MaterialType) TableName() string { return "sdp_material_type" }

type ComponentUom struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemName string `gorm:"column:item_name" json:"item_name"`
	IsActive bool   `gorm:"column:is_active" json:"is_active"`
}

func (ComponentUom) TableName() string { return "sdp_component_uom" }

type ComponentPackagingLevel struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemName string `gorm:"column:item_name" json:"item_name"`
	IsActive bool   `gorm:"column:is_active" json:"is_active"`
}

func (ComponentPackagingLevel) TableName() string { return "sdp_component_packaging_level" }

type ComponentPackagingMaterial struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemName string `gorm:"column:item_name" json:"item_name"`
	IsActive bool   `gorm:"column:is_active" json:"is_active"`
}

func (ComponentPackagingMaterial) TableName() string { return "sdp_component_packaging_material" }
