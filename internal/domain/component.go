package domain

import (
	"time"
)

// ComponentDetail is one packaging component's physical and compliance
// attributes. component_code is not unique; later ingestions of the same
// code reuse the first row instead of creating a new one.
//
// Column types mirror the ingestion coercion table: explicitly coerced
// numerics are typed pointers, everything else passes through as a nullable
// string the way the upstream form delivers it.
type ComponentDetail struct {
	ID                              int        `gorm:"primaryKey;autoIncrement" json:"id"`
	CmCode                          *string    `gorm:"column:cm_code;index" json:"cm_code"`
	SkuCode                         *string    `gorm:"column:sku_code;index" json:"sku_code"`
	FormulationReference            *string    `gorm:"column:formulation_reference" json:"formulation_reference"`
	MaterialTypeID                  *string    `gorm:"column:material_type_id" json:"material_type_id"`
	ComponentsReference             *string    `gorm:"column:components_reference" json:"components_reference"`
	ComponentCode                   *string    `gorm:"column:component_code;index" json:"component_code"`
	ComponentDescription            *string    `gorm:"column:component_description" json:"component_description"`
	ComponentValidFrom              *time.Time `gorm:"column:component_valid_from" json:"component_valid_from"`
	ComponentValidTo                *time.Time `gorm:"column:component_valid_to" json:"component_valid_to"`
	ComponentMaterialGroup          *string    `gorm:"column:component_material_group" json:"component_material_group"`
	ComponentQuantity               *float64   `gorm:"column:component_quantity" json:"component_quantity"`
	ComponentUomID                  *string    `gorm:"column:component_uom_id" json:"component_uom_id"`
	ComponentBaseQuantity           *float64   `gorm:"column:component_base_quantity" json:"component_base_quantity"`
	ComponentBaseUomID              *string    `gorm:"column:component_base_uom_id" json:"component_base_uom_id"`
	PercentWW                       *float64   `gorm:"column:percent_w_w" json:"percent_w_w"`
	Evidence                        *string    `gorm:"column:evidence" json:"evidence"`
	ComponentPackagingTypeID        *string    `gorm:"column:component_packaging_type_id" json:"component_packaging_type_id"`
	ComponentPackagingMaterial      *string    `gorm:"column:component_packaging_material" json:"component_packaging_material"`
	HelperColumn                    *string    `gorm:"column:helper_column" json:"helper_column"`
	ComponentUnitWeight             *float64   `gorm:"column:component_unit_weight" json:"component_unit_weight"`
	WeightUnitMeasureID             *string    `gorm:"column:weight_unit_measure_id" json:"weight_unit_measure_id"`
	PercentMechanicalPcrContent     *float64   `gorm:"column:percent_mechanical_pcr_content" json:"percent_mechanical_pcr_content"`
	PercentMechanicalPirContent     *float64   `gorm:"column:percent_mechanical_pir_content" json:"percent_mechanical_pir_content"`
	PercentChemicalRecycledContent  *float64   `gorm:"column:percent_chemical_recycled_content" json:"percent_chemical_recycled_content"`
	PercentBioSourced               *float64   `gorm:"column:percent_bio_sourced" json:"percent_bio_sourced"`
	MaterialStructureMultimaterials *string    `gorm:"column:material_structure_multimaterials" json:"material_structure_multimaterials"`
	ComponentPackagingColorOpacity  *string    `gorm:"column:component_packaging_color_opacity" json:"component_packaging_color_opacity"`
	ComponentPackagingLevelID       *string    `gorm:"column:component_packaging_level_id" json:"component_packaging_level_id"`
	ComponentDimensions             *string    `gorm:"column:component_dimensions" json:"component_dimensions"`
	PackagingSpecificationEvidence  *string    `gorm:"column:packaging_specification_evidence" json:"packaging_specification_evidence"`
	EvidenceOfRecycledOrBioSource   *string    `gorm:"column:evidence_of_recycled_or_bio_source" json:"evidence_of_recycled_or_bio_source"`
	LastUpdateDate                  *time.Time `gorm:"column:last_update_date" json:"last_update_date"`
	CategoryEntryID                 *string    `gorm:"column:category_entry_id" json:"category_entry_id"`
	DataVerificationEntryID         *string    `gorm:"column:data_verification_entry_id" json:"data_verification_entry_id"`
	UserID                          *string    `gorm:"column:user_id" json:"user_id"`
	SignedOffBy                     *string    `gorm:"column:signed_off_by" json:"signed_off_by"`
	SignedOffDate                   *time.Time `gorm:"column:signed_off_date" json:"signed_off_date"`
	MandatoryFieldsCompletionStatus *string    `gorm:"column:mandatory_fields_completion_status" json:"mandatory_fields_completion_status"`
	EvidenceProvided                *string    `gorm:"column:evidence_provided" json:"evidence_provided"`
	DocumentStatus                  *string    `gorm:"column:document_status" json:"document_status"`
	IsActive                        bool       `gorm:"column:is_active" json:"is_active"`
	CreatedBy                       *string    `gorm:"column:created_by" json:"created_by"`
	CreatedDate                     time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	Year                            *int       `gorm:"column:year" json:"year"`
	ComponentUnitWeightID           *string    `gorm:"column:component_unit_weight_id" json:"component_unit_weight_id"`
	Periods                         *int       `gorm:"column:periods" json:"periods"`
}

func (ComponentDetail) TableName() string { return "sdp_component_details" }
